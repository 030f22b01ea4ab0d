package main

import (
	"fmt"
	"os"
	"strings"

	"attachmi/internal/format"
	"attachmi/internal/models"
	"attachmi/internal/state"
)

var outputFormatter format.Formatter = format.JSONFormatter{Indent: "  "}

func writeJSON(payload any) error {
	return outputFormatter.Write(os.Stdout, payload)
}

func writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, format, args...)
	return err
}

func writeAttachmentList(attachments []models.Attachment) error {
	for _, attachment := range attachments {
		if err := writePlain("%s\n", formatAttachmentLine(attachment)); err != nil {
			return err
		}
	}
	return nil
}

func writeAttachmentDetail(attachment models.Attachment, refs []models.CollectionRef) error {
	lines := []string{
		fmt.Sprintf("id: %d", attachment.ID),
		fmt.Sprintf("name: %s", attachment.Name),
		fmt.Sprintf("date: %s", attachment.Date),
	}
	if attachment.Description != "" {
		lines = append(lines, fmt.Sprintf("description: %s", attachment.Description))
	}
	if attachment.Notes != "" {
		lines = append(lines, fmt.Sprintf("notes: %s", attachment.Notes))
	}
	if attachment.FileName != "" {
		lines = append(lines, fmt.Sprintf("file: %s", attachment.FileName))
	}
	if len(refs) > 0 {
		names := make([]string, 0, len(refs))
		for _, ref := range refs {
			names = append(names, ref.Name)
		}
		lines = append(lines, fmt.Sprintf("collections: %s", strings.Join(names, ", ")))
	}
	return writePlain("%s\n", strings.Join(lines, "\n"))
}

func writeCollectionList(collections []models.Collection) error {
	for _, collection := range collections {
		if err := writePlain("%d  %s (%d)\n", collection.ID, collection.Name, collection.Count); err != nil {
			return err
		}
	}
	return nil
}

func writeSnapshot(snap state.Snapshot) error {
	if err := writePlain("search: %q  attachments: %d/%d  collections: %d\n",
		snap.SearchText, len(snap.FilteredAttachments), len(snap.Attachments), len(snap.Collections)); err != nil {
		return err
	}
	for _, attachment := range snap.FilteredAttachments {
		marker := " "
		if snap.SelectedAttachment != nil && snap.SelectedAttachment.ID == attachment.ID {
			marker = ">"
		}
		if err := writePlain("%s %s\n", marker, formatAttachmentLine(attachment)); err != nil {
			return err
		}
	}
	return nil
}

func formatAttachmentLine(attachment models.Attachment) string {
	marker := " "
	if attachment.FileName != "" {
		marker = "*"
	}
	return fmt.Sprintf("%d %s [%s] %s", attachment.ID, marker, attachment.Date, attachment.Name)
}
