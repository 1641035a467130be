package mdt

import (
	"context"
	"fmt"
)

// ShowModal opens the dialog with an arbitrary body, replacing any open one.
func (c *Controller) ShowModal(ctx context.Context, title string, body any) error {
	return c.call(ctx, func() { c.showModal(title, body, "") })
}

// CloseModal hides the dialog. It is idempotent.
func (c *Controller) CloseModal(ctx context.Context) error {
	return c.call(ctx, c.closeModal)
}

// DismissModal closes the dialog only when the click landed on the overlay
// itself rather than on its content.
func (c *Controller) DismissModal(ctx context.Context, target Anchor) error {
	return c.call(ctx, func() {
		if target == AnchorModal {
			c.closeModal()
		}
	})
}

// OpenForm renders a form into the dialog.
func (c *Controller) OpenForm(ctx context.Context, kind FormKind) error {
	var openErr error
	if err := c.call(ctx, func() { openErr = c.openForm(kind) }); err != nil {
		return err
	}
	return openErr
}

// SubmitForm validates the open form, runs its creation action off the loop,
// then closes the dialog and confirms with a success notification. On
// failure the dialog stays open.
func (c *Controller) SubmitForm(ctx context.Context, kind FormKind, values map[string]string) error {
	var (
		handler    SubmitHandler
		submission FormSubmission
		form       FormTemplate
		prepErr    error
	)
	if err := c.call(ctx, func() {
		form, handler, submission, prepErr = c.prepareSubmit(kind, values)
	}); err != nil {
		return err
	}
	if prepErr != nil {
		return prepErr
	}

	submitErr := handler.Submit(ctx, submission)

	if err := c.call(ctx, func() {
		if submitErr != nil {
			c.log.Errorw("form submission failed", "form", kind, "error", submitErr)
			c.notify(fmt.Sprintf("Failed to submit %s", form.Title), KindError)
			return
		}
		if c.modal.Visible && c.modal.Form == kind {
			c.closeModal()
		}
		c.notify(successMessage(form), KindSuccess)
		c.telemetry.Record(c.runCtx, "mdt.form.submit", map[string]any{"form": string(kind)})
	}); err != nil {
		return err
	}
	return submitErr
}

func (c *Controller) prepareSubmit(kind FormKind, values map[string]string) (FormTemplate, SubmitHandler, FormSubmission, error) {
	form, ok := c.forms[kind]
	if !ok {
		return FormTemplate{}, nil, FormSubmission{}, fmt.Errorf("%w: %s", ErrUnknownForm, kind)
	}
	if !c.modal.Visible || c.modal.Form != kind {
		return form, nil, FormSubmission{}, fmt.Errorf("%w: %s", ErrFormNotOpen, kind)
	}
	if err := c.validator.Validate(form, values); err != nil {
		c.log.Infow("form rejected", "form", kind, "error", err)
		return form, nil, FormSubmission{}, err
	}
	handler, ok := c.handlers[kind]
	if !ok {
		c.log.Warnw("form submitted without handler", "form", kind)
		return form, nil, FormSubmission{}, fmt.Errorf("%w: %s", ErrSubmitNotWired, kind)
	}
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return form, handler, FormSubmission{Form: kind, Values: copied, Officer: c.session}, nil
}

func (c *Controller) openForm(kind FormKind) error {
	form, ok := c.forms[kind]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownForm, kind)
	}
	c.showModal(form.Title, c.formBody(form), kind)
	return nil
}

// formBody renders the form markup, falling back to the structured form.
func (c *Controller) formBody(form FormTemplate) any {
	if c.renderer == nil {
		return FormView{Template: form}
	}
	html, err := c.renderer.Render(templateName(form.Kind), templateData(form, c.session))
	if err != nil {
		c.log.Warnw("form template render failed", "form", form.Kind, "error", err)
		return FormView{Template: form}
	}
	return html
}

func (c *Controller) showModal(title string, body any, kind FormKind) {
	c.modal = Modal{Visible: true, Title: title, Body: body, Form: kind}
	if c.surface.HasAnchor(AnchorModal) {
		c.surface.ShowModal(ModalView{Title: title, Body: body, Form: kind})
	}
}

func (c *Controller) closeModal() {
	c.modal.Visible = false
	c.modal.Form = ""
	if c.surface.HasAnchor(AnchorModal) {
		c.surface.HideModal()
	}
}

func successMessage(form FormTemplate) string {
	switch form.Kind {
	case FormNewIncident:
		return "Incident created successfully"
	case FormAddCitizen:
		return "Citizen added successfully"
	case FormAddVehicle:
		return "Vehicle added successfully"
	case FormNewIncidentReport:
		return "Report created successfully"
	default:
		return form.Title + " submitted successfully"
	}
}
