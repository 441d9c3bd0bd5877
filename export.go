package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
)

// csvColumns is the dashboard's expected column order.
var csvColumns = []string{
	"story_title",
	"story_category",
	"story_summary",
	"story_LinkedIn_post",
	"story_url",
}

// WriteCSV writes accepted stories as CSV. Extra keys beyond the fixed
// columns are not exported here; the JSON export carries them.
func WriteCSV(path string, stories []Story) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating CSV file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(csvColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, story := range stories {
		row := make([]string, len(csvColumns))
		for i, col := range csvColumns {
			row[i] = story.stringField(col)
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

// WriteJSON writes accepted stories as a JSON array, incidental extra keys
// included.
func WriteJSON(path string, stories []Story) error {
	if stories == nil {
		stories = []Story{}
	}

	data, err := json.MarshalIndent(stories, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding stories: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing JSON file: %w", err)
	}
	return nil
}
