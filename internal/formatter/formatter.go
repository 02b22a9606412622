// package formatter exports playlist data to CSV and Markdown for use
// outside the CLI.
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/desertthunder/spt/internal/models"
)

// ExportToCSV converts a playlist and its tracks to CSV with columns:
// ID, Title, Artist, Album, Duration (ms), URI.
func ExportToCSV(tracks []models.PlaylistTrack) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Duration (ms)", "URI"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range tracks {
		record := []string{
			item.Track.ID,
			item.Track.Name,
			item.Track.Artist(),
			item.Track.Album.Name,
			strconv.Itoa(item.Track.DurationMS),
			item.Track.URI,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a playlist and its tracks to a Markdown track listing.
func ExportToMarkdown(playlist models.Playlist, tracks []models.PlaylistTrack) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", playlist.Name))

	if playlist.Description != "" {
		buf.WriteString(fmt.Sprintf("%s\n\n", playlist.Description))
	}

	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", playlist.TrackCount()))
	buf.WriteString("| # | Title | Artist | Album |\n")
	buf.WriteString("|---|-------|--------|-------|\n")

	for i, item := range tracks {
		buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s |\n",
			i+1, item.Track.Name, item.Track.Artist(), item.Track.Album.Name))
	}

	return buf.Bytes(), nil
}
