package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Selectors maps logical roles to portal selectors, grouped by portal
// area. Values may be XPath or CSS; the browser layer tells them apart.
// The core never interprets selector syntax itself, so the map can be
// re-pointed when the portal markup changes without touching code.
type Selectors struct {
	Login struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Submit   string `json:"submit"`
	} `json:"login"`
	Nav struct {
		CalendarTab string `json:"calendar_tab"`
		CasesTab    string `json:"cases_tab"`
	} `json:"nav"`
	Calendar struct {
		DayCells        string `json:"day_cells"`
		DayNumberInCell string `json:"day_number_in_cell"`
		HearingDot      string `json:"hearing_dot"`
		OverlayRow      string `json:"overlay_row"`
		MonthNext       string `json:"month_next"`
	} `json:"calendar"`
	HearingPopup struct {
		Dialog string `json:"dialog"`
		Close  string `json:"close"`
	} `json:"hearing_popup"`
	CaseSearch struct {
		ANumberInput string `json:"anumber_input"`
		SearchBtn    string `json:"search_btn"`
		OpenCase     string `json:"open_case"`
	} `json:"case_search"`
	CaseDocs struct {
		DocumentsTab string `json:"documents_tab"`
		TableRows    string `json:"table_rows"`
		ColLabel     string `json:"col_label"`
		ColDate      string `json:"col_date"`
		DownloadBtn  string `json:"download_btn"`
	} `json:"case_docs"`
}

// LoadSelectors reads the selector map from a JSON document.
func LoadSelectors(path string) (*Selectors, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read selectors: %w", err)
	}
	var sel Selectors
	if err := json.Unmarshal(data, &sel); err != nil {
		return nil, fmt.Errorf("parse selectors: %w", err)
	}
	return &sel, nil
}
