package voxel

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Formato serializado:
//
//	"VXB" | versão (1 byte) | zstd( uvarint size | uvarint height | runs... )
//
// cada run é uvarint comprimento + 1 byte de BlockType, na ordem do índice linear.
const (
	codecMagic   = "VXB"
	codecVersion = 1

	// MaxVoxels limita size*size*height aceito por Unmarshal.
	MaxVoxels = 1 << 24
)

var (
	ErrCorrupt = errors.New("voxel: dados serializados corrompidos")
	ErrVersion = errors.New("voxel: versão de formato desconhecida")
)

var (
	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	// Pior caso do RLE: um run de 1 voxel (2 bytes) por voxel.
	decoder, _ = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0), zstd.WithDecoderMaxMemory(2*MaxVoxels+64))
)

// Marshal serializa o buffer com RLE + zstd.
func Marshal(b *Buffer) ([]byte, error) {
	b.check()

	raw := make([]byte, 0, 64)
	raw = binary.AppendUvarint(raw, uint64(b.Size))
	raw = binary.AppendUvarint(raw, uint64(b.Height))

	if len(b.blocks) > 0 {
		run := uint64(1)
		cur := b.blocks[0]
		for _, t := range b.blocks[1:] {
			if t == cur {
				run++
				continue
			}
			raw = binary.AppendUvarint(raw, run)
			raw = append(raw, byte(cur))
			cur, run = t, 1
		}
		raw = binary.AppendUvarint(raw, run)
		raw = append(raw, byte(cur))
	}

	out := make([]byte, 0, len(codecMagic)+1+len(raw)/2)
	out = append(out, codecMagic...)
	out = append(out, codecVersion)
	return encoder.EncodeAll(raw, out), nil
}

// Unmarshal reconstrói um buffer serializado por Marshal.
func Unmarshal(data []byte) (*Buffer, error) {
	if len(data) < len(codecMagic)+1 || string(data[:len(codecMagic)]) != codecMagic {
		return nil, ErrCorrupt
	}
	if v := data[len(codecMagic)]; v != codecVersion {
		return nil, fmt.Errorf("%w: %d", ErrVersion, v)
	}

	raw, err := decoder.DecodeAll(data[len(codecMagic)+1:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	size, n := binary.Uvarint(raw)
	if n <= 0 {
		return nil, ErrCorrupt
	}
	raw = raw[n:]
	height, n := binary.Uvarint(raw)
	if n <= 0 {
		return nil, ErrCorrupt
	}
	raw = raw[n:]
	if size == 0 || height == 0 || size > 1<<12 || height > 1<<12 || size*size*height > MaxVoxels {
		return nil, fmt.Errorf("%w: dimensões %dx%d", ErrCorrupt, size, height)
	}

	b := New(int(size), int(height))
	pos := 0
	for len(raw) > 0 {
		run, n := binary.Uvarint(raw)
		if n <= 0 || len(raw) < n+1 {
			return nil, ErrCorrupt
		}
		t := BlockType(raw[n])
		raw = raw[n+1:]
		if run == 0 || uint64(pos)+run > uint64(len(b.blocks)) {
			return nil, ErrCorrupt
		}
		for i := 0; i < int(run); i++ {
			b.blocks[pos] = t
			pos++
		}
	}
	if pos != len(b.blocks) {
		return nil, fmt.Errorf("%w: %d de %d voxels", ErrCorrupt, pos, len(b.blocks))
	}
	return b, nil
}
