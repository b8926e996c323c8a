package service

import (
	"strings"

	"coffee_sync/internal/models"
	"coffee_sync/internal/visualizer"
)

const previewImageExt = ".png"

// RecordTags are the config-sourced values stamped on every record.
type RecordTags struct {
	BaseURL string // Visualizer base URL, used to build the shot link
	Machine string
	Grinder string
}

// MapShotToRecord builds the log-table row for a shot. The same inputs always
// give the same record; a nil preview leaves the record without attachments.
func MapShotToRecord(shot models.Shot, preview *string, tags RecordTags) models.ShotRecord {
	rec := models.ShotRecord{
		ShotID:         shot.ID,
		DateTime:       shot.StartTime,
		URL:            tags.BaseURL + "/shots/" + shot.ID,
		Profile:        shot.ProfileTitle,
		Yield:          shot.DrinkWeight,
		ExtractionTime: visualizer.ExtractionTime(shot),
		Machine:        []string{tags.Machine},
		Grinder:        []string{tags.Grinder},
	}
	if preview != nil && *preview != "" {
		rec.Attachments = []models.Attachment{{
			Filename: previewFilename(*preview),
			URL:      *preview,
		}}
	}
	return rec
}

// previewFilename is the final path segment of the image URL plus ".png".
func previewFilename(imageURL string) string {
	return imageURL[strings.LastIndex(imageURL, "/")+1:] + previewImageExt
}
