// internal/clipboard/clipboard_test.go

package clipboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasImageDetectsPNGAndTIFF(t *testing.T) {
	cases := map[string]struct {
		info string
		want bool
	}{
		"png":       {"«class PNGf», 24090, «class TIFF», 46858", true},
		"tiff only": {"TIFF picture, 46858", true},
		"text only": {"string, 14, «class utf8», 14", false},
		"empty":     {"", false},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r := NewReader(t.TempDir())
			r.runScript = func(script string) ([]byte, error) {
				return []byte(tc.info), nil
			}
			assert.Equal(t, tc.want, r.hasImage())
		})
	}
}

func TestHasImageFalseOnScriptError(t *testing.T) {
	r := NewReader(t.TempDir())
	r.runScript = func(script string) ([]byte, error) {
		return nil, errors.New("osascript failed")
	}
	assert.False(t, r.hasImage())
}

func TestIsStagedImage(t *testing.T) {
	assert.True(t, IsStagedImage("clipboard_image_20260825_120000_ab12cd34.png"))
	assert.False(t, IsStagedImage("vacation.png"))
	assert.False(t, IsStagedImage("notes.txt"))
}

func TestEscapeScriptString(t *testing.T) {
	assert.Equal(t, `C:\\tmp`, escapeScriptString(`C:\tmp`))
	assert.Equal(t, `a \"quoted\" path`, escapeScriptString(`a "quoted" path`))
}
