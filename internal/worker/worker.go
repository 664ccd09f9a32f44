package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"VoxelStream/internal/meshing"
	"VoxelStream/internal/terrain"
	"VoxelStream/shared/voxel"
)

// worker processa pedidos de uma única fila, em ordem.
type worker struct {
	id          int
	incarnation int
	inbox       chan Request
	done        chan struct{}

	// abandoned é marcado quando o pool desiste do worker (timeout).
	// A goroutine termina o pedido atual, se conseguir, e sai.
	abandoned atomic.Bool
	leave     sync.Once // libera a vaga em p.wg uma única vez

	factory terrain.Factory
	timeout time.Duration

	source  terrain.Source
	mesher  meshing.Mesher
	meshers map[string]meshing.Mesher
}

type crash struct {
	worker      int
	incarnation int
	cause       interface{}
}

func (p *Pool) run(w *worker) {
	defer w.leave.Do(p.wg.Done)
	defer close(w.done)
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Worker %d: %v", w.id, r)
			select {
			case p.crashes <- crash{worker: w.id, incarnation: w.incarnation, cause: r}:
			case <-p.stop:
			}
		}
	}()

	for req := range w.inbox {
		if _, ok := req.(Dispose); ok || w.abandoned.Load() {
			return
		}
		resp := w.process(req)
		select {
		case p.raw <- resp:
		case <-p.stop:
			return
		}
	}
}

func (w *worker) process(req Request) Response {
	switch r := req.(type) {
	case Init:
		w.source = w.factory(r.Seed)
		w.meshers = make(map[string]meshing.Mesher)
		m, err := meshing.ByName(r.Mesher)
		if err != nil {
			log.Printf("[Worker %d] %v, usando greedy", w.id, err)
			m = meshing.Greedy{}
		}
		w.mesher = m
		return Initialized{Worker: w.id}

	case Generate:
		buf, err := w.fill(r.Header)
		if err != nil {
			reason := TerrainFailure
			if errors.Is(err, context.DeadlineExceeded) {
				reason = Timeout
				err = fmt.Errorf("%w: %v", ErrTimeout, err)
			}
			return Error{ID: r.ID, Key: r.Key, Generation: r.Generation, Worker: w.id, Reason: reason, Err: err}
		}
		return w.generated(r.Header, buf)

	case Regenerate:
		mesh := w.mesherFor(r.Mesher).Build(accessor(r.Buffer, r.Borders))
		return ChunkRegenerated{ID: r.ID, Key: r.Key, Generation: r.Generation, Worker: w.id, Mesh: mesh}

	case Dispose:
		return nil
	}
	panic(fmt.Sprintf("worker: pedido desconhecido %T", req))
}

// generated monta a malha e move o buffer para a resposta. Depois disso o
// worker não pode mais tocar em buf.
func (w *worker) generated(h Header, buf *voxel.Buffer) ChunkGenerated {
	mesh := w.mesherFor(h.Mesher).Build(accessor(buf, h.Borders))
	return ChunkGenerated{
		ID:         h.ID,
		Key:        h.Key,
		Generation: h.Generation,
		Worker:     w.id,
		Buffer:     buf.Transfer(),
		Mesh:       mesh,
	}
}

func (w *worker) fill(h Header) (*voxel.Buffer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	buf, err := w.source.Fill(ctx, h.Key.X, h.Key.Z, h.Size, h.Height)
	if err != nil {
		return nil, err
	}
	if s, hh := buf.Dims(); s != h.Size || hh != h.Height {
		return nil, fmt.Errorf("%w: terreno devolveu %dx%d, esperado %dx%d", terrain.ErrFillFailed, s, hh, h.Size, h.Height)
	}
	return buf, nil
}

func (w *worker) mesherFor(name string) meshing.Mesher {
	if name == "" {
		return w.mesher
	}
	if m, ok := w.meshers[name]; ok {
		return m
	}
	m, err := meshing.ByName(name)
	if err != nil {
		log.Printf("[Worker %d] %v, usando %s", w.id, err, w.mesher.Name())
		m = w.mesher
	}
	w.meshers[name] = m
	return m
}

func accessor(buf *voxel.Buffer, borders *voxel.Borders) voxel.Accessor {
	if borders == nil {
		return buf
	}
	return voxel.Bordered{Buf: buf, Borders: borders}
}
