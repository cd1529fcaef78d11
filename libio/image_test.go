package libio_test

import (
	"bytes"
	"image/png"
	"math"
	"testing"

	"postfx/libio"
)

func gradient(width, height, channels int) *libio.FloatImage {
	pix := make([]float32, width*height*channels)
	for i := range pix {
		pix[i] = float32(i%97) / 8
	}
	return libio.NewFloatImage(pix, channels, width, height)
}

func TestFloatImageUncompressed(t *testing.T) {
	img := gradient(7, 5, 4)
	buf := bytes.NewBuffer(nil)
	if err := libio.EncodeFloatImage(buf, img, libio.FloatImageCompressionNone); err != nil {
		t.Fatal(err)
	}
	decoded, err := libio.DecodeFloatImage(buf)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Width != 7 || decoded.Height != 5 || decoded.Channels != 4 {
		t.Fatalf("dimensions should be 7x5x4 but are %dx%dx%d", decoded.Width, decoded.Height, decoded.Channels)
	}
	for i := range img.Pix {
		if decoded.Pix[i] != img.Pix[i] {
			t.Fatalf("value %d should be %v but is %v", i, img.Pix[i], decoded.Pix[i])
		}
	}
}

func TestFloatImageFixedPoint(t *testing.T) {
	img := gradient(16, 9, 4)
	// constant alpha channel
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 1
	}
	buf := bytes.NewBuffer(nil)
	if err := libio.EncodeFloatImage(buf, img, libio.FloatImageCompressionFixedPoint16Lz4); err != nil {
		t.Fatal(err)
	}
	decoded, err := libio.DecodeFloatImage(buf)
	if err != nil {
		t.Fatal(err)
	}
	// 16 bit quantization of a 0..12 range
	tolerance := 12.0 / 0xffff
	for i := range img.Pix {
		if math.Abs(float64(decoded.Pix[i]-img.Pix[i])) > tolerance {
			t.Fatalf("value %d should be %v but is %v", i, img.Pix[i], decoded.Pix[i])
		}
	}
}

func TestDecodeFloatImageCorrupt(t *testing.T) {
	if _, err := libio.DecodeFloatImage(bytes.NewReader([]byte{1, 2, 3})); err == nil {
		t.Errorf("a truncated header should fail")
	}
	buf := bytes.NewBuffer(nil)
	libio.EncodeFloatImage(buf, gradient(2, 2, 1), libio.FloatImageCompressionNone)
	data := buf.Bytes()
	data[0] ^= 0xff
	if _, err := libio.DecodeFloatImage(bytes.NewReader(data)); err == nil {
		t.Errorf("a wrong magic number should fail")
	}
}

func TestEncodePNGFlipsRows(t *testing.T) {
	// bottom row white, top row black
	img := libio.NewFloatImage([]float32{1, 1, 1, 0, 0, 0}, 3, 1, 2)
	buf := bytes.NewBuffer(nil)
	if err := libio.EncodePNG(buf, img, 1, 1); err != nil {
		t.Fatal(err)
	}
	decoded, err := png.Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if r, _, _, _ := decoded.At(0, 1).RGBA(); r != 0xffff {
		t.Errorf("bottom pixel should be white, red is %x", r)
	}
	if r, _, _, _ := decoded.At(0, 0).RGBA(); r != 0 {
		t.Errorf("top pixel should be black, red is %x", r)
	}
}
