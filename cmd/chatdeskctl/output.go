package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"chatdesk/internal/models"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printMessageTable(messages []models.Message) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tROLE\tCONTENT\tTRANSLATION")
	for _, m := range messages {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.ID, m.Role, truncate(m.Content, 40), translationLabel(m.Translate))
	}
	w.Flush()
	fmt.Printf("\n%d messages\n", len(messages))
}

func printMessage(m models.Message) {
	fmt.Printf("ID:          %s\n", m.ID)
	fmt.Printf("Session:     %s\n", m.SessionID)
	if m.TopicID != "" {
		fmt.Printf("Topic:       %s\n", m.TopicID)
	}
	fmt.Printf("Role:        %s\n", m.Role)
	fmt.Printf("Content:     %s\n", m.Content)
	if m.Translate != nil {
		fmt.Printf("Translation: %s\n", translationLabel(m.Translate))
		fmt.Printf("             %s\n", m.Translate.Content)
	}
	if m.TTS != nil {
		fmt.Printf("TTS:         %s (%s)\n", m.TTS.File, m.TTS.Voice)
	}
}

func printSettings(s models.Settings) {
	fmt.Printf("Theme:       %s\n", s.ThemeMode)
	fmt.Printf("Language:    %s\n", s.Language)
	fmt.Printf("Translation: %s/%s\n", s.SystemAgent.Translation.Provider, s.SystemAgent.Translation.Model)
	fmt.Printf("Function:    %s/%s\n", s.SystemAgent.Function.Provider, s.SystemAgent.Function.Model)
	fmt.Printf("Default:     %s/%s\n", s.DefaultAgent.Config.Provider, s.DefaultAgent.Config.Model)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nPROVIDER\tENABLED\tENDPOINT")
	for _, name := range sortedKeys(s.LanguageModel) {
		p := s.LanguageModel[name]
		fmt.Fprintf(w, "%s\t%t\t%s\n", name, p.Enabled, p.Endpoint)
	}
	w.Flush()
}

func translationLabel(tr *models.ChatTranslate) string {
	if tr == nil {
		return "-"
	}
	from := tr.From
	if from == "" {
		from = "?"
	}
	return from + " -> " + tr.To
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
