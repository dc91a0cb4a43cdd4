// Package dialogs provides application dialogs.
package dialogs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"pixelforge/internal/project"
)

// CanvasSizeDialog asks for the name and size of a fresh canvas.
type CanvasSizeDialog struct {
	window fyne.Window

	nameEntry   *widget.Entry
	widthEntry  *widget.Entry
	heightEntry *widget.Entry

	onCreate func(name string, width, height int)
}

// NewCanvasSizeDialog creates the dialog. onCreate runs with validated values.
func NewCanvasSizeDialog(window fyne.Window, width, height int, onCreate func(name string, width, height int)) *CanvasSizeDialog {
	d := &CanvasSizeDialog{window: window, onCreate: onCreate}

	d.nameEntry = widget.NewEntry()
	d.nameEntry.SetText(project.DefaultName)
	d.widthEntry = widget.NewEntry()
	d.widthEntry.SetText(strconv.Itoa(width))
	d.heightEntry = widget.NewEntry()
	d.heightEntry.SetText(strconv.Itoa(height))
	return d
}

// Show displays the dialog.
func (d *CanvasSizeDialog) Show() {
	form := widget.NewForm(
		widget.NewFormItem("Name", d.nameEntry),
		widget.NewFormItem("Width", d.widthEntry),
		widget.NewFormItem("Height", d.heightEntry),
	)

	dlg := dialog.NewCustomConfirm("New Canvas", "Create", "Cancel", form, func(ok bool) {
		if !ok {
			return
		}
		name, w, h, err := ParseCanvasSpec(d.nameEntry.Text, d.widthEntry.Text, d.heightEntry.Text)
		if err != nil {
			dialog.ShowError(err, d.window)
			return
		}
		if d.onCreate != nil {
			d.onCreate(name, w, h)
		}
	}, d.window)
	dlg.Resize(fyne.NewSize(320, 240))
	dlg.Show()
}

// ParseCanvasSpec validates the dialog fields. A blank name becomes the
// default project name.
func ParseCanvasSpec(name, width, height string) (string, int, int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = project.DefaultName
	}
	w, errW := parseDimension("width", width)
	h, errH := parseDimension("height", height)
	if err := errors.Join(errW, errH); err != nil {
		return "", 0, 0, err
	}
	return name, w, h, nil
}

func parseDimension(field, text string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number", field)
	}
	if v < 1 || v > project.MaxSize {
		return 0, fmt.Errorf("%s must be between 1 and %d", field, project.MaxSize)
	}
	return v, nil
}
