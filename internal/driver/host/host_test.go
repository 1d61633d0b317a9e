package host

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ledkbd/internal/driver/color"
)

type fakeKeyboard struct {
	setKeyColors []color.KeyColor
	setAllColors color.Color
	err          error
}

func (f *fakeKeyboard) SetColor(kc color.KeyColor) error { return f.SetKeyColors([]color.KeyColor{kc}) }
func (f *fakeKeyboard) SetKeyColors(colors []color.KeyColor) error {
	if f.err != nil {
		return f.err
	}
	f.setKeyColors = append(f.setKeyColors, colors...)
	return nil
}
func (f *fakeKeyboard) SetAllColors(c color.Color) error {
	if f.err != nil {
		return f.err
	}
	f.setAllColors = c
	return nil
}

func TestPostColors(t *testing.T) {
	kb := &fakeKeyboard{}
	router := NewRouter(kb, time.Now())

	body := `[{"category":"standard","code":4,"r":10,"g":20,"b":30}]`
	req := httptest.NewRequest(http.MethodPost, "/colors", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, kb.setKeyColors, 1)
	assert.Equal(t, uint8(4), kb.setKeyColors[0].Key.Code)
	assert.Equal(t, color.Color{R: 10, G: 20, B: 30}, kb.setKeyColors[0].Color)
}

func TestPostColorsUnknownCategory(t *testing.T) {
	kb := &fakeKeyboard{}
	router := NewRouter(kb, time.Now())

	body := `[{"category":"nope","code":1,"r":1,"g":1,"b":1}]`
	req := httptest.NewRequest(http.MethodPost, "/colors", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, kb.setKeyColors)
}

func TestPostColorsAll(t *testing.T) {
	kb := &fakeKeyboard{}
	router := NewRouter(kb, time.Now())

	req := httptest.NewRequest(http.MethodPost, "/colors/all", bytes.NewBufferString(`{"r":1,"g":2,"b":3}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, color.Color{R: 1, G: 2, B: 3}, kb.setAllColors)
}

func TestGetStatus(t *testing.T) {
	kb := &fakeKeyboard{}
	router := NewRouter(kb, time.Now().Add(-time.Minute))

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "uptime")
}
