package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/geokey/geoadmin/internal/models"
)

// ExportToCSV exports saved filters to a CSV file
func ExportToCSV(filters []models.SavedFilter, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Name", "Description", "Expression", "Tags", "Server", "Project", "Created", "Updated", "Last Used", "Usage Count"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, f := range filters {
		tags := strings.Join(f.Tags, ", ")

		created := f.CreatedAt.Format("2006-01-02 15:04:05")
		updated := f.UpdatedAt.Format("2006-01-02 15:04:05")
		lastUsed := ""
		if !f.LastUsed.IsZero() {
			lastUsed = f.LastUsed.Format("2006-01-02 15:04:05")
		}

		row := []string{
			f.Name,
			f.Description,
			f.Expression,
			tags,
			f.Server,
			strconv.Itoa(f.ProjectID),
			created,
			updated,
			lastUsed,
			strconv.Itoa(f.UsageCount),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

// ExportToJSON exports saved filters to a JSON file
func ExportToJSON(filters []models.SavedFilter, path string) error {
	data, err := json.MarshalIndent(filters, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal saved filters to JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	return nil
}

// ExportMembersToCSV exports a user group's member list to a CSV file
func ExportMembersToCSV(group *models.UserGroup, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"ID", "Display Name", "Group"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, u := range group.Users {
		row := []string{strconv.Itoa(u.ID), u.DisplayName, group.Name}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}
