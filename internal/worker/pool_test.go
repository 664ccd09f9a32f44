package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"VoxelStream/internal/meshing"
	"VoxelStream/internal/terrain"
	"VoxelStream/shared/util"
	"VoxelStream/shared/voxel"
)

const waitLimit = 3 * time.Second

func flat(int64) terrain.Source { return terrain.Flat{Level: 2, Block: voxel.Stone} }

// next lê a próxima resposta de chunk, ignorando Initialized.
func next(t *testing.T, p *Pool) Response {
	t.Helper()
	timer := time.NewTimer(waitLimit)
	defer timer.Stop()
	for {
		select {
		case resp, ok := <-p.Responses():
			if !ok {
				t.Fatal("responses closed")
			}
			if resp.Kind() == KindInitialized {
				continue
			}
			return resp
		case <-timer.C:
			t.Fatal("timed out waiting for a response")
		}
	}
}

func generate(key util.ChunkKey, gen uint64) Generate {
	return Generate{Header: NewHeader(key, gen, 4, 4)}
}

func TestFIFOPerWorker(t *testing.T) {
	p := NewPool(Options{Workers: 1, Terrain: flat})
	defer p.Close()

	var sent []Generate
	for i := 0; i < 10; i++ {
		req := generate(util.ChunkKey{X: i, Z: -i}, uint64(i+1))
		if err := p.Dispatch(req); err != nil {
			t.Fatalf("Dispatch(%d) = %v", i, err)
		}
		sent = append(sent, req)
	}
	for i, req := range sent {
		resp := next(t, p)
		got, ok := resp.(ChunkGenerated)
		if !ok {
			t.Fatalf("response %d = %T, want ChunkGenerated", i, resp)
		}
		if got.ID != req.ID || got.Generation != req.Generation {
			t.Errorf("response %d = %v gen %d, want %v gen %d", i, got.ID, got.Generation, req.ID, req.Generation)
		}
		if got.Buffer == nil || got.Mesh.Empty() {
			t.Errorf("response %d has no buffer or mesh", i)
		}
	}
}

func TestDispatchIsDeterministic(t *testing.T) {
	a := NewPool(Options{Workers: 4, Seed: 99, Terrain: flat})
	defer a.Close()
	b := NewPool(Options{Workers: 4, Seed: 99, Terrain: flat})
	defer b.Close()

	for x := -5; x <= 5; x++ {
		for z := -5; z <= 5; z++ {
			key := util.ChunkKey{X: x, Z: z}
			if a.WorkerFor(key) != b.WorkerFor(key) {
				t.Fatalf("WorkerFor(%v) differs between pools", key)
			}
		}
	}

	key := util.ChunkKey{X: 3, Z: -2}
	if err := a.Dispatch(generate(key, 1)); err != nil {
		t.Fatal(err)
	}
	resp := next(t, a).(ChunkGenerated)
	if resp.Worker != a.WorkerFor(key) {
		t.Errorf("served by worker %d, want %d", resp.Worker, a.WorkerFor(key))
	}
}

type slowSource struct{ delay time.Duration }

func (s slowSource) Fill(ctx context.Context, x, z, size, height int) (*voxel.Buffer, error) {
	time.Sleep(s.delay)
	return voxel.New(size, height), nil
}

func TestTimeoutDropsLateReply(t *testing.T) {
	p := NewPool(Options{
		Workers: 1,
		Timeout: 20 * time.Millisecond,
		Terrain: func(int64) terrain.Source { return slowSource{delay: 150 * time.Millisecond} },
	})
	defer p.Close()

	req := generate(util.ChunkKey{X: 1, Z: 1}, 7)
	if err := p.Dispatch(req); err != nil {
		t.Fatal(err)
	}
	resp := next(t, p)
	e, ok := resp.(Error)
	if !ok || e.Reason != Timeout || e.ID != req.ID {
		t.Fatalf("response = %#v, want Timeout error for %v", resp, req.ID)
	}
	if !errors.Is(e, ErrTimeout) {
		t.Errorf("errors.Is(%v, ErrTimeout) = false", e)
	}

	time.Sleep(300 * time.Millisecond)
	select {
	case late := <-p.Responses():
		if late.Kind() != KindInitialized {
			t.Errorf("late reply leaked: %#v", late)
		}
	default:
	}
	if st := p.Stats(); st.Late != 1 || st.Timeouts != 1 {
		t.Errorf("Stats = %+v, want Late=1 Timeouts=1", st)
	}
}

// stuckSource trava para sempre na chave stuck, ignorando o contexto.
type stuckSource struct {
	stuck   util.ChunkKey
	release chan struct{}
}

func (s stuckSource) Fill(ctx context.Context, x, z, size, height int) (*voxel.Buffer, error) {
	if (util.ChunkKey{X: x, Z: z}) == s.stuck {
		<-s.release
	}
	return voxel.New(size, height), nil
}

func TestStuckWorkerIsReplaced(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	stuck := util.ChunkKey{X: 5, Z: 5}
	p := NewPool(Options{
		Workers:         1,
		Timeout:         30 * time.Millisecond,
		RestartCooldown: 50 * time.Millisecond,
		Terrain:         func(int64) terrain.Source { return stuckSource{stuck: stuck, release: release} },
	})
	defer p.Close()

	reqs := []Generate{
		generate(stuck, 1),
		generate(util.ChunkKey{X: 1, Z: 0}, 2),
		generate(util.ChunkKey{X: 2, Z: 0}, 3),
	}
	for _, req := range reqs {
		if err := p.Dispatch(req); err != nil {
			t.Fatal(err)
		}
	}
	// O pedido travado e os que estavam na fila atrás dele viram Timeout.
	for i, req := range reqs {
		e, ok := next(t, p).(Error)
		if !ok || e.Reason != Timeout || e.ID != req.ID {
			t.Fatalf("response %d = %#v, want Timeout for %v", i, e, req.ID)
		}
		if !errors.Is(e, ErrTimeout) {
			t.Errorf("errors.Is(%v, ErrTimeout) = false", e)
		}
	}

	healthy := util.ChunkKey{X: 3, Z: 0}
	deadline := time.Now().Add(waitLimit)
	for {
		err := p.Dispatch(generate(healthy, 4))
		if err == nil {
			break
		}
		if !errors.Is(err, ErrWorkerUnavailable) {
			t.Fatalf("Dispatch = %v, want nil or ErrWorkerUnavailable", err)
		}
		if time.Now().After(deadline) {
			t.Fatal("stuck worker was never replaced")
		}
		time.Sleep(5 * time.Millisecond)
	}
	got, ok := next(t, p).(ChunkGenerated)
	if !ok || got.Key != healthy {
		t.Fatalf("replacement worker response = %#v, want ChunkGenerated for %v", got, healthy)
	}

	st := p.Stats()
	if st.Restarts != 1 || st.Crashes != 0 || st.Timeouts < 1 {
		t.Errorf("Stats = %+v, want Restarts=1 Crashes=0 Timeouts>=1", st)
	}
}

func TestGeneratedMovesBuffer(t *testing.T) {
	w := &worker{id: 0, mesher: meshing.Greedy{}, meshers: map[string]meshing.Mesher{}}
	buf := voxel.New(4, 4)
	buf.Set(1, 1, 1, voxel.Stone)
	want := buf.Clone()

	resp := w.generated(NewHeader(util.ChunkKey{}, 1, 4, 4), buf)
	if !buf.Released() {
		t.Error("worker still owns the buffer after handing it off")
	}
	if resp.Buffer.Released() || !resp.Buffer.Equal(want) {
		t.Error("ChunkGenerated.Buffer does not carry the generated voxels")
	}
	if resp.Mesh.QuadCount() != 6 {
		t.Errorf("QuadCount = %d, want 6", resp.Mesh.QuadCount())
	}
}

type panicSource struct {
	bad   util.ChunkKey
	fills *int32
}

func (s panicSource) Fill(ctx context.Context, x, z, size, height int) (*voxel.Buffer, error) {
	atomic.AddInt32(s.fills, 1)
	if (util.ChunkKey{X: x, Z: z}) == s.bad {
		panic("terreno corrompido")
	}
	return voxel.New(size, height), nil
}

func TestCrashRestartsWorker(t *testing.T) {
	var fills int32
	bad := util.ChunkKey{X: 9, Z: 9}
	p := NewPool(Options{
		Workers:         1,
		RestartCooldown: 200 * time.Millisecond,
		Terrain:         func(int64) terrain.Source { return panicSource{bad: bad, fills: &fills} },
	})
	defer p.Close()

	req := generate(bad, 3)
	if err := p.Dispatch(req); err != nil {
		t.Fatal(err)
	}
	e, ok := next(t, p).(Error)
	if !ok || e.Reason != WorkerCrashed || e.ID != req.ID {
		t.Fatalf("got %#v, want WorkerCrashed for %v", e, req.ID)
	}
	if !errors.Is(e, ErrWorkerCrashed) {
		t.Errorf("errors.Is(%v, ErrWorkerCrashed) = false", e)
	}

	if err := p.Dispatch(generate(util.ChunkKey{}, 4)); !errors.Is(err, ErrWorkerUnavailable) {
		t.Fatalf("Dispatch during cooldown = %v, want ErrWorkerUnavailable", err)
	}

	deadline := time.Now().Add(waitLimit)
	for {
		err := p.Dispatch(generate(util.ChunkKey{}, 5))
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("worker never restarted: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if _, ok := next(t, p).(ChunkGenerated); !ok {
		t.Error("restarted worker did not serve the request")
	}
	if st := p.Stats(); st.Crashes != 1 || st.Restarts != 1 {
		t.Errorf("Stats = %+v, want Crashes=1 Restarts=1", st)
	}
}

func TestTerrainFailure(t *testing.T) {
	p := NewPool(Options{
		Workers: 2,
		Terrain: func(int64) terrain.Source { return &terrain.Failing{Inner: flat(0), Failures: -1} },
	})
	defer p.Close()

	if err := p.Dispatch(generate(util.ChunkKey{X: 2, Z: 2}, 1)); err != nil {
		t.Fatal(err)
	}
	e, ok := next(t, p).(Error)
	if !ok || e.Reason != TerrainFailure {
		t.Fatalf("got %#v, want TerrainFailure", e)
	}
	if !errors.Is(e, terrain.ErrFillFailed) {
		t.Errorf("errors.Is(%v, terrain.ErrFillFailed) = false", e)
	}
}

func TestRegenerate(t *testing.T) {
	p := NewPool(Options{Workers: 1, Terrain: flat, Mesher: "culling"})
	defer p.Close()

	buf := voxel.New(4, 4)
	buf.Set(1, 1, 1, voxel.Wood)
	req := Regenerate{Header: NewHeader(util.ChunkKey{X: 0, Z: 0}, 2, 4, 4), Buffer: buf}
	if err := p.Dispatch(req); err != nil {
		t.Fatal(err)
	}
	resp, ok := next(t, p).(ChunkRegenerated)
	if !ok {
		t.Fatal("want ChunkRegenerated")
	}
	if resp.Mesh.QuadCount() != 6 || resp.Generation != 2 {
		t.Errorf("QuadCount = %d gen %d, want 6 gen 2", resp.Mesh.QuadCount(), resp.Generation)
	}
}

func TestCloseRejectsDispatch(t *testing.T) {
	p := NewPool(Options{Workers: 2, Terrain: flat})
	p.Close()
	if err := p.Dispatch(generate(util.ChunkKey{}, 1)); !errors.Is(err, ErrClosed) {
		t.Errorf("Dispatch after Close = %v, want ErrClosed", err)
	}
	p.Close()
}

func TestDispatchRejectsControlMessages(t *testing.T) {
	p := NewPool(Options{Workers: 1, Terrain: flat})
	defer p.Close()
	if err := p.Dispatch(Dispose{}); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Dispatch(Dispose) = %v, want ErrUnsupported", err)
	}
}
