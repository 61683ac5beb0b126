package export

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationURL(t *testing.T) {
	assert.Equal(t, "https://app.example/register/K7M2Q9XD", RegistrationURL("https://app.example/", "K7M2Q9XD"))
}

func TestQRCodePNG(t *testing.T) {
	data, err := QRCodePNG(RegistrationURL("http://localhost:3000", "K7M2Q9XD"), 256)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())

	_, err = QRCodePNG("x", 64)
	assert.Error(t, err)
	_, err = QRCodePNG("x", 2048)
	assert.Error(t, err)
}
