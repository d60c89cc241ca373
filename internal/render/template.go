package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/tomargood/weather-dashboardv2/internal/wx"
)

// PageBuilder handles HTML generation for the dashboard page
type PageBuilder struct {
	templateLoader *TemplateLoader
}

// NewPageBuilder creates a page builder
func NewPageBuilder(loader *TemplateLoader) *PageBuilder {
	return &PageBuilder{templateLoader: loader}
}

// TemplateData represents the data structure for the page template
type TemplateData struct {
	StationID     string
	StationName   string
	FlightRules   string
	Visibility    string
	CloudLayers   []string
	Altimeter     string
	Temperature   string
	Dewpoint      string
	WindSpeed     string
	WindGust      string
	WindDirection string
	ArrowRotation string
	PressureAlt   string
	DensityAlt    string
	WxCodes       []string
	Condition     string
	RawMETAR      string
	TAFLines      []string
	ObservedText  string
	Version       string
	Width         int
	Height        int
}

// NewTemplateData maps a snapshot onto the template model
func NewTemplateData(snap *wx.Snapshot, version string, width, height int) TemplateData {
	return TemplateData{
		StationID:     snap.StationID,
		StationName:   snap.StationName,
		FlightRules:   snap.FlightRules,
		Visibility:    snap.Visibility,
		CloudLayers:   snap.CloudLayers,
		Altimeter:     snap.Altimeter,
		Temperature:   snap.Temperature,
		Dewpoint:      snap.Dewpoint,
		WindSpeed:     snap.WindSpeed,
		WindGust:      snap.WindGust,
		WindDirection: snap.WindDirection,
		ArrowRotation: snap.ArrowRotation,
		PressureAlt:   snap.PressureAlt,
		DensityAlt:    snap.DensityAlt,
		WxCodes:       snap.WxCodes,
		Condition:     snap.Condition,
		RawMETAR:      snap.RawMETAR,
		TAFLines:      snap.TAFLines,
		ObservedText:  snap.ObservedText,
		Version:       version,
		Width:         width,
		Height:        height,
	}
}

// BuildPageHTML executes the page template with the provided data
func (b *PageBuilder) BuildPageHTML(data TemplateData) (string, error) {
	htmlTemplate, err := b.templateLoader.LoadPageTemplate()
	if err != nil {
		return "", fmt.Errorf("failed to load page template: %w", err)
	}

	tmpl, err := template.New("page").Funcs(template.FuncMap{
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
		"safeCSS": func(s string) template.CSS {
			return template.CSS(s)
		},
	}).Parse(htmlTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse page template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute page template: %w", err)
	}

	return buf.String(), nil
}
