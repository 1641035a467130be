package mdt

import (
	"strings"

	"github.com/ettle/strcase"
)

// FormKind identifies one of the dashboard creation forms.
type FormKind string

const (
	FormNewIncident       FormKind = "new-incident"
	FormAddCitizen        FormKind = "add-citizen"
	FormAddVehicle        FormKind = "add-vehicle"
	FormNewIncidentReport FormKind = "new-incident-report"
)

// FieldType is the input control used for a field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldDate     FieldType = "date"
	FieldSelect   FieldType = "select"
)

// FieldOption is a select choice.
type FieldOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FormField describes one input.
type FormField struct {
	Name     string        `json:"name"`
	Label    string        `json:"label"`
	Type     FieldType     `json:"type"`
	Rows     int           `json:"rows,omitempty"`
	Options  []FieldOption `json:"options,omitempty"`
	Required bool          `json:"required"`
}

// FormTemplate describes a modal form.
type FormTemplate struct {
	Kind        FormKind    `json:"kind"`
	Title       string      `json:"title"`
	SubmitLabel string      `json:"submit_label"`
	Fields      []FormField `json:"fields"`
}

// FormSubmission is a validated form handed to its submit handler.
type FormSubmission struct {
	Form    FormKind          `json:"form"`
	Values  map[string]string `json:"values"`
	Officer Session           `json:"officer"`
}

// FormView is the structured modal body used when no template renderer is set.
type FormView struct {
	Template FormTemplate `json:"template"`
}

// DefaultForms returns the four built-in forms.
func DefaultForms() []FormTemplate {
	return []FormTemplate{
		{
			Kind:        FormNewIncident,
			Title:       "New Incident Report",
			SubmitLabel: "Create Incident",
			Fields: []FormField{
				{
					Name:     "incident-type",
					Label:    "Incident Type",
					Type:     FieldSelect,
					Required: true,
					Options: []FieldOption{
						{Value: "traffic", Label: "Traffic Violation"},
						{Value: "theft", Label: "Theft"},
						{Value: "assault", Label: "Assault"},
						{Value: "other", Label: "Other"},
					},
				},
				{Name: "incident-location", Label: "Location", Type: FieldText, Required: true},
				{Name: "incident-description", Label: "Description", Type: FieldTextarea, Rows: 4, Required: true},
			},
		},
		{
			Kind:        FormAddCitizen,
			Title:       "Add New Citizen",
			SubmitLabel: "Add Citizen",
			Fields: []FormField{
				{Name: "citizen-name", Label: "Full Name", Type: FieldText, Required: true},
				{Name: "citizen-dob", Label: "Date of Birth", Type: FieldDate, Required: true},
				{Name: "citizen-license", Label: "License Number", Type: FieldText, Required: true},
			},
		},
		{
			Kind:        FormAddVehicle,
			Title:       "Add New Vehicle",
			SubmitLabel: "Add Vehicle",
			Fields: []FormField{
				{Name: "vehicle-plate", Label: "License Plate", Type: FieldText, Required: true},
				{Name: "vehicle-model", Label: "Vehicle Model", Type: FieldText, Required: true},
				{Name: "vehicle-owner", Label: "Owner", Type: FieldText, Required: true},
			},
		},
		{
			Kind:        FormNewIncidentReport,
			Title:       "New Incident Report",
			SubmitLabel: "Create Report",
			Fields: []FormField{
				{
					Name:     "report-type",
					Label:    "Report Type",
					Type:     FieldSelect,
					Required: true,
					Options: []FieldOption{
						{Value: "arrest", Label: "Arrest Report"},
						{Value: "incident", Label: "Incident Report"},
						{Value: "traffic", Label: "Traffic Report"},
					},
				},
				{Name: "report-subject", Label: "Subject", Type: FieldText, Required: true},
				{Name: "report-details", Label: "Report Details", Type: FieldTextarea, Rows: 6, Required: true},
			},
		},
	}
}

// Schema builds the JSON schema enforced on submitted values. Only required
// fields are checked; select options are presentational.
func (f FormTemplate) Schema() map[string]any {
	properties := make(map[string]any, len(f.Fields))
	required := make([]string, 0, len(f.Fields))
	for _, field := range f.Fields {
		prop := map[string]any{"type": "string"}
		if field.Required {
			prop["pattern"] = `\S`
			required = append(required, field.Name)
		}
		properties[field.Name] = prop
	}
	schema := map[string]any{
		"$schema":    "http://json-schema.org/draft-07/schema#",
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// missingFields lists required fields that are absent or blank.
func (f FormTemplate) missingFields(values map[string]string) []string {
	var missing []string
	for _, field := range f.Fields {
		if !field.Required {
			continue
		}
		if strings.TrimSpace(values[field.Name]) == "" {
			missing = append(missing, field.Name)
		}
	}
	return missing
}

func indexForms(forms []FormTemplate) map[FormKind]FormTemplate {
	out := make(map[FormKind]FormTemplate, len(forms))
	for _, form := range forms {
		out[form.Kind] = form
	}
	return out
}

// templateData flattens the form into plain maps for the template engine.
func templateData(form FormTemplate, officer Session) map[string]any {
	fields := make([]map[string]any, 0, len(form.Fields))
	for _, field := range form.Fields {
		options := make([]map[string]any, 0, len(field.Options))
		for _, opt := range field.Options {
			options = append(options, map[string]any{"value": opt.Value, "label": opt.Label})
		}
		fields = append(fields, map[string]any{
			"name":     field.Name,
			"label":    field.Label,
			"type":     string(field.Type),
			"rows":     field.Rows,
			"required": field.Required,
			"options":  options,
		})
	}
	return map[string]any{
		"form": map[string]any{
			"id":           string(form.Kind),
			"title":        form.Title,
			"submit_label": form.SubmitLabel,
			"fields":       fields,
		},
		"officer": map[string]any{
			"name":     officer.Name,
			"callsign": officer.Callsign,
			"badge":    officer.Badge,
		},
	}
}

func templateName(kind FormKind) string {
	return "forms/" + strcase.ToSnake(string(kind))
}
