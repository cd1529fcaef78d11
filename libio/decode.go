package libio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/chewxy/math32"
	"github.com/pierrec/lz4/v4"
)

func DecodeFloatImage(r io.Reader) (img *FloatImage, err error) {
	var br *BinaryReader
	var ok bool

	if br, ok = r.(*BinaryReader); !ok {
		br = &BinaryReader{
			Src:   r,
			Order: binary.LittleEndian,
		}

		defer func() {
			if br.Err != nil {
				if err == nil {
					err = br.Err
				} else {
					err = fmt.Errorf("%v: %w", err, br.Err)
				}
			}
		}()
	}

	header := FloatImageHeader{}
	if !br.ReadRef(&header) {
		return nil, fmt.Errorf("expected f32 header; byte 0x%08x", br.LastIndex)
	}

	if header.Check != MagicNumberF32 {
		return nil, fmt.Errorf("f32 header is corrupt; byte 0x%08x", br.LastIndex)
	}

	if header.Version != F32Version1_001_000 {
		return nil, fmt.Errorf("f32 version %d unsupported; byte 0x%08x", header.Version, br.LastIndex)
	}

	count := int(header.Width) * int(header.Height)
	channels := int(header.Channels)
	var data []float32

	switch header.Compression {
	case FloatImageCompressionNone:
		data = make([]float32, count*channels)
		br.ReadRef(data)
	case FloatImageCompressionFixedPoint16Lz4:
		rangeBytes := 4 * 2 * channels
		dataBytes := count * channels * 2
		buf := make([]byte, rangeBytes+dataBytes)
		lzr := lz4.NewReader(br.Src)
		_, err = io.ReadFull(lzr, buf)
		if err != nil {
			break
		}
		data, err = decompressFixedPoint16(channels, count, buf)
	default:
		err = fmt.Errorf("unknown compression %d", header.Compression)
	}

	if err != nil {
		return nil, fmt.Errorf("could not decompress f32 pixels: %w", err)
	}
	if br.Err != nil {
		return nil, fmt.Errorf("could not read f32 pixels; byte 0x%08x", br.LastIndex)
	}

	return NewFloatImage(data, channels, int(header.Width), int(header.Height)), nil
}

func decompressFixedPoint16(channels, count int, data []byte) ([]float32, error) {
	result := make([]float32, count*channels)
	br := &BinaryReader{
		Src:   bytes.NewReader(data),
		Order: binary.LittleEndian,
	}
	fix := make([]uint16, count)
	for ch := 0; ch < channels; ch++ {
		decompressChannelFixedPoint16(channels, result, fix, br, ch)
		if br.Err != nil {
			return nil, br.Err
		}
	}
	return result, nil
}

func decompressChannelFixedPoint16(channels int, pix []float32, fix []uint16, br *BinaryReader, ch int) {
	var imin, imax uint32
	br.ReadUInt32(&imin)
	br.ReadUInt32(&imax)
	br.ReadRef(fix)

	min := math32.Float32frombits(imin)
	max := math32.Float32frombits(imax)

	r := max - min
	for i, v := range fix {
		pix[i*channels+ch] = (float32(v)/0xffff)*r + min
	}
}
