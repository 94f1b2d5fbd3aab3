package page

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefault(t *testing.T) {
	p, err := LoadDefault()
	require.NoError(t, err)

	for _, id := range []string{"temperature", "humidity", "last-update"} {
		slot, err := p.Slot(id)
		require.NoError(t, err, id)
		assert.Equal(t, id, slot.ID())
		assert.Equal(t, "--", slot.Text())
	}
}

func TestSlotNotFound(t *testing.T) {
	p, err := Load(strings.NewReader(`<html><body><span id="temperature"></span></body></html>`))
	require.NoError(t, err)

	_, err = p.Slot("humidity")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSlotNotFound)
	assert.Contains(t, err.Error(), `"humidity"`)
}

func TestSlotIDIsMatchedExactly(t *testing.T) {
	p, err := Load(strings.NewReader(`<div id="last-update-old">a</div><div id="last-update">b</div>`))
	require.NoError(t, err)

	slot, err := p.Slot("last-update")
	require.NoError(t, err)
	assert.Equal(t, "b", slot.Text())

	_, err = p.Slot("last")
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestSetTextOverwrites(t *testing.T) {
	p, err := Load(strings.NewReader(`<p id="temperature">old <b>markup</b></p>`))
	require.NoError(t, err)
	slot, err := p.Slot("temperature")
	require.NoError(t, err)

	slot.SetText("72")
	slot.SetText("73")
	assert.Equal(t, "73", slot.Text())

	var buf bytes.Buffer
	require.NoError(t, p.Render(&buf))
	assert.Contains(t, buf.String(), `<p id="temperature">73</p>`)
	assert.NotContains(t, buf.String(), "markup")
}

func TestSetTextEscapesHTML(t *testing.T) {
	p, err := LoadDefault()
	require.NoError(t, err)
	slot, err := p.Slot("humidity")
	require.NoError(t, err)

	slot.SetText("<script>alert(1)</script>")
	assert.Equal(t, "<script>alert(1)</script>", slot.Text())

	var buf bytes.Buffer
	require.NoError(t, p.Render(&buf))
	assert.Contains(t, buf.String(), "&lt;script&gt;")
	assert.NotContains(t, buf.String(), "<script>")
}

func TestSetTextsIgnoresForeignSlots(t *testing.T) {
	a, err := LoadDefault()
	require.NoError(t, err)
	b, err := LoadDefault()
	require.NoError(t, err)

	foreign, err := b.Slot("temperature")
	require.NoError(t, err)

	a.SetTexts(SlotText{Slot: foreign, Text: "x"})
	assert.Equal(t, "--", foreign.Text())
}

func TestConcurrentWriteAndRender(t *testing.T) {
	p, err := LoadDefault()
	require.NoError(t, err)
	slot, err := p.Slot("temperature")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			slot.SetText("20")
		}()
		go func() {
			defer wg.Done()
			var buf bytes.Buffer
			assert.NoError(t, p.Render(&buf))
		}()
	}
	wg.Wait()
	assert.Equal(t, "20", slot.Text())
}
