package libio

import (
	"encoding/binary"
	"io"
)

// BinaryReader remembers the first error, every read after it is a no-op.
type BinaryReader struct {
	Order     binary.ByteOrder
	Src       io.Reader
	Index     int
	LastIndex int
	Err       error
	buf       []byte
}

func (br *BinaryReader) ReadBytes(n int) (ok bool) {
	if br.Err != nil {
		return false
	}

	if cap(br.buf) < n {
		br.buf = make([]byte, n)
	} else {
		br.buf = br.buf[:n]
	}

	nread, err := io.ReadFull(br.Src, br.buf)
	if err != nil {
		br.Err = err
	}

	br.LastIndex = br.Index
	br.Index += nread

	return br.Err == nil
}

func (br *BinaryReader) Read(p []byte) (n int, err error) {
	return br.Src.Read(p)
}

func (br *BinaryReader) ReadUInt32(i *uint32) (ok bool) {
	if !br.ReadBytes(4) {
		return false
	}
	*i = br.Order.Uint32(br.buf)
	return true
}

func (br *BinaryReader) ReadRef(data any) (ok bool) {
	if br.Err != nil {
		return false
	}
	err := binary.Read(br.Src, br.Order, data)
	br.Err = err
	br.LastIndex = br.Index
	if err == nil {
		br.Index += binary.Size(data)
	}
	return err == nil
}

type BinaryWriter struct {
	Order binary.ByteOrder
	Dst   io.Writer
	Err   error
	buf   [4]byte
}

func (bw *BinaryWriter) WriteBytes(p []byte) (ok bool) {
	if bw.Err != nil {
		return false
	}

	_, err := bw.Dst.Write(p)
	if err != nil {
		bw.Err = err
		return false
	}
	return true
}

func (bw *BinaryWriter) Write(p []byte) (n int, err error) {
	return bw.Dst.Write(p)
}

func (bw *BinaryWriter) WriteUInt32(i uint32) (ok bool) {
	bw.Order.PutUint32(bw.buf[:4], i)
	return bw.WriteBytes(bw.buf[:4])
}

func (bw *BinaryWriter) WriteUInt16(i uint16) (ok bool) {
	bw.Order.PutUint16(bw.buf[:2], i)
	return bw.WriteBytes(bw.buf[:2])
}

func (bw *BinaryWriter) WriteRef(data any) (ok bool) {
	if bw.Err != nil {
		return false
	}
	err := binary.Write(bw.Dst, bw.Order, data)
	bw.Err = err
	return err == nil
}
