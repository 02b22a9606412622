package auth

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/spt/internal/shared"
	"golang.org/x/oauth2"
)

// TokenRecord is one logical user's persisted token state.
//
// IssuedAt marks when the access token was last issued; Scopes is the
// scope actually granted by the authorization server, which may exceed
// what was requested.
type TokenRecord struct {
	AccessToken  string
	RefreshToken string
	IssuedAt     time.Time
	Scopes       []string
}

// Expired reports whether the access token is past its lifetime at now.
func (r *TokenRecord) Expired(now time.Time, lifetime time.Duration) bool {
	return now.Sub(r.IssuedAt) >= lifetime
}

// HasScope reports whether every requested scope is contained in the
// granted scope set.
func (r *TokenRecord) HasScope(requested []string) bool {
	granted := make(map[string]struct{}, len(r.Scopes))
	for _, s := range r.Scopes {
		granted[s] = struct{}{}
	}
	for _, s := range requested {
		if _, ok := granted[s]; !ok {
			return false
		}
	}
	return true
}

// OAuth2Token converts the record for use with [oauth2] token sources.
func (r *TokenRecord) OAuth2Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		TokenType:    "Bearer",
	}
}

// FileStore persists one [TokenRecord] per cache file as four
// newline-delimited fields: access token, refresh token, issued_at as a
// unix-seconds timestamp, and space-separated granted scopes.
//
// Writes are whole-file overwrites, not transactional; a crash mid-write
// can leave a corrupt file, which Read then rejects.
type FileStore struct{}

// Resolve returns the cache path <base>/cache/<user>.cache.
//
// An empty base resolves to the working directory and relative bases are
// joined to it; user may be empty.
func (FileStore) Resolve(baseDir, user string) string {
	if baseDir == "" {
		baseDir, _ = os.Getwd()
	} else if !filepath.IsAbs(baseDir) {
		wd, _ := os.Getwd()
		baseDir = filepath.Join(wd, baseDir)
	}
	return filepath.Join(baseDir, "cache", user+".cache")
}

// Read loads a TokenRecord from path.
//
// A missing file returns [shared.ErrCacheMiss]; a file without exactly
// four fields returns [shared.ErrCacheCorrupt] (no auto repair).
func (FileStore) Read(path string) (*TokenRecord, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, shared.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token cache: %w", err)
	}

	fields := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(fields) != 4 {
		return nil, fmt.Errorf("%w: expected 4 fields, found %d in %s", shared.ErrCacheCorrupt, len(fields), path)
	}

	issued, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad issued_at %q", shared.ErrCacheCorrupt, fields[2])
	}

	return &TokenRecord{
		AccessToken:  fields[0],
		RefreshToken: fields[1],
		IssuedAt:     time.Unix(int64(issued), 0),
		Scopes:       strings.Fields(fields[3]),
	}, nil
}

// Write persists rec to path, creating parent directories as needed and
// overwriting any existing file wholesale.
func (FileStore) Write(path string, rec *TokenRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	content := strings.Join([]string{
		rec.AccessToken,
		rec.RefreshToken,
		strconv.FormatInt(rec.IssuedAt.Unix(), 10),
		strings.Join(rec.Scopes, " "),
	}, "\n") + "\n"

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write token cache: %w", err)
	}

	return nil
}
