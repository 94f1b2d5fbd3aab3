package render

import (
	"errors"

	"github.com/tejusbharadwaj/climatewidget/internal/models"
	"github.com/tejusbharadwaj/climatewidget/internal/page"
)

// Slot ids the renderer binds to.
const (
	TemperatureSlot = "temperature"
	HumiditySlot    = "humidity"
	LastUpdateSlot  = "last-update"
)

// Fallback text shown when a poll fails.
const (
	ErrorText            = "Error"
	ConnectionFailedText = "Connection failed"
)

// Renderer writes a reading, or the error state, into the output slots.
type Renderer interface {
	UpdateUI(reading models.ClimateReading)
	ShowError()
}

// SlotRenderer renders into three slots of a page.
type SlotRenderer struct {
	page        *page.Page
	temperature *page.Slot
	humidity    *page.Slot
	lastUpdate  *page.Slot
}

// NewSlotRenderer binds the temperature, humidity and last-update slots of p.
// It fails if any of them is absent, reporting every missing id.
func NewSlotRenderer(p *page.Page) (*SlotRenderer, error) {
	var errs []error
	lookup := func(id string) *page.Slot {
		slot, err := p.Slot(id)
		if err != nil {
			errs = append(errs, err)
		}
		return slot
	}

	r := &SlotRenderer{
		page:        p,
		temperature: lookup(TemperatureSlot),
		humidity:    lookup(HumiditySlot),
		lastUpdate:  lookup(LastUpdateSlot),
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return r, nil
}

// UpdateUI writes the reading verbatim.
func (r *SlotRenderer) UpdateUI(reading models.ClimateReading) {
	r.write(reading.Temperature.String(), reading.Humidity.String(), reading.LastDatetime.String())
}

func (r *SlotRenderer) ShowError() {
	r.write(ErrorText, ErrorText, ConnectionFailedText)
}

func (r *SlotRenderer) write(temperature, humidity, lastUpdate string) {
	r.page.SetTexts(
		page.SlotText{Slot: r.temperature, Text: temperature},
		page.SlotText{Slot: r.humidity, Text: humidity},
		page.SlotText{Slot: r.lastUpdate, Text: lastUpdate},
	)
}

var _ Renderer = (*SlotRenderer)(nil)
