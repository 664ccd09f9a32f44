package worker

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"VoxelStream/internal/mathx"
	"VoxelStream/internal/terrain"
	"VoxelStream/shared/util"

	"github.com/google/uuid"
)

// Options configura o Pool.
type Options struct {
	Workers         int
	Seed            int64
	Mesher          string
	Terrain         terrain.Factory
	Timeout         time.Duration
	RestartCooldown time.Duration
	InboxSize       int
	ResponseBuffer  int
}

func (o *Options) defaults() {
	if o.Workers <= 0 {
		o.Workers = 1
	}
	if o.Terrain == nil {
		o.Terrain = func(seed int64) terrain.Source { return terrain.NewSimplex(seed) }
	}
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Second
	}
	if o.RestartCooldown <= 0 {
		o.RestartCooldown = time.Second
	}
	if o.InboxSize <= 0 {
		o.InboxSize = 64
	}
	if o.ResponseBuffer <= 0 {
		o.ResponseBuffer = 1024
	}
}

type slot struct {
	w          *worker
	restarting bool
}

type flight struct {
	id       uuid.UUID
	header   Header
	worker   int
	seq      uint64
	deadline time.Time
}

// Stats é um retrato do pool.
type Stats struct {
	InFlight int
	Late     int
	Timeouts int
	Crashes  int
	Restarts int
}

// Pool mantém N workers fixos. Cada chave vai sempre para o mesmo worker,
// então os pedidos de um chunk são processados em ordem.
type Pool struct {
	opts Options

	mu       sync.Mutex
	slots    []*slot
	inflight map[uuid.UUID]*flight
	seq      uint64
	closing  bool
	stats    Stats

	raw      chan Response
	out      chan Response
	crashes  chan crash
	stop     chan struct{}
	loopDone chan struct{}
	wg       sync.WaitGroup
}

// NewPool cria e inicia os workers. Cada um recebe Init antes de qualquer pedido.
func NewPool(opts Options) *Pool {
	opts.defaults()
	p := &Pool{
		opts:     opts,
		slots:    make([]*slot, opts.Workers),
		inflight: make(map[uuid.UUID]*flight),
		raw:      make(chan Response, opts.ResponseBuffer),
		out:      make(chan Response, opts.ResponseBuffer),
		crashes:  make(chan crash, opts.Workers),
		stop:     make(chan struct{}),
		loopDone: make(chan struct{}),
	}

	p.mu.Lock()
	for i := range p.slots {
		p.slots[i] = &slot{}
		p.startWorker(i)
	}
	p.mu.Unlock()

	go p.loop()
	log.Printf("[Pool] %d workers iniciados (seed %d, mesher %q)", opts.Workers, opts.Seed, opts.Mesher)
	return p
}

// startWorker deve ser chamado com p.mu travado.
func (p *Pool) startWorker(i int) {
	s := p.slots[i]
	incarnation := 0
	if s.w != nil {
		incarnation = s.w.incarnation + 1
	}
	w := &worker{
		id:          i,
		incarnation: incarnation,
		inbox:       make(chan Request, p.opts.InboxSize),
		done:        make(chan struct{}),
		factory:     p.opts.Terrain,
		timeout:     p.opts.Timeout,
	}
	w.inbox <- Init{Seed: p.opts.Seed, Mesher: p.opts.Mesher}
	s.w = w
	s.restarting = false

	p.wg.Add(1)
	go p.run(w)
}

// WorkerFor retorna o índice do worker responsável pela chave.
func (p *Pool) WorkerFor(key util.ChunkKey) int {
	return mathx.Bucket(uint32(p.opts.Seed), int32(key.X), int32(key.Z), len(p.slots))
}

// Responses é o canal de respostas; fechado depois de Close.
func (p *Pool) Responses() <-chan Response {
	return p.out
}

// Dispatch envia um pedido sem bloquear. Retorna ErrWorkerUnavailable se o
// worker estiver reiniciando ou com a fila cheia.
func (p *Pool) Dispatch(req Request) error {
	h, ok := HeaderOf(req)
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnsupported, req.Kind())
	}
	idx := p.WorkerFor(h.Key)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closing {
		return ErrClosed
	}
	s := p.slots[idx]
	if s.restarting {
		return fmt.Errorf("%w: worker %d reiniciando", ErrWorkerUnavailable, idx)
	}

	p.seq++
	p.inflight[h.ID] = &flight{
		id:       h.ID,
		header:   h,
		worker:   idx,
		seq:      p.seq,
		deadline: time.Now().Add(p.opts.Timeout),
	}

	select {
	case s.w.inbox <- req:
		return nil
	default:
		// Fila cheia: desfaz o registro para o chamador tentar depois
		delete(p.inflight, h.ID)
		return fmt.Errorf("%w: fila do worker %d cheia", ErrWorkerUnavailable, idx)
	}
}

func (p *Pool) loop() {
	defer close(p.loopDone)

	interval := p.opts.Timeout / 4
	if interval > 50*time.Millisecond {
		interval = 50 * time.Millisecond
	}
	if interval < time.Millisecond {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case resp := <-p.raw:
			p.forward(resp)
		case c := <-p.crashes:
			p.handleCrash(c)
		case now := <-ticker.C:
			p.expire(now)
		case <-p.stop:
			return
		}
	}
}

func (p *Pool) emit(resp Response) {
	select {
	case p.out <- resp:
	case <-p.stop:
	}
}

func (p *Pool) forward(resp Response) {
	id, ok := ResponseID(resp)
	if !ok {
		p.emit(resp)
		return
	}

	p.mu.Lock()
	_, live := p.inflight[id]
	delete(p.inflight, id)
	if !live {
		p.stats.Late++
	}
	closing := p.closing
	p.mu.Unlock()

	if !live {
		log.Printf("[Pool] Resposta tardia descartada: %v %v", resp.Kind(), id)
		return
	}
	if closing {
		return
	}
	p.emit(resp)
}

// release remove do in-flight os vôos selecionados, em ordem de despacho.
// Deve ser chamado com p.mu travado.
func (p *Pool) release(match func(*flight) bool) []*flight {
	var out []*flight
	for id, f := range p.inflight {
		if match(f) {
			out = append(out, f)
			delete(p.inflight, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// abandon tira o worker i de serviço até o reinício e devolve os vôos que
// ele ainda devia. A goroutine antiga não é esperada: se estiver presa num
// pedido, a resposta tardia cai em forward e é descartada.
// Deve ser chamado com p.mu travado.
func (p *Pool) abandon(i int) ([]*flight, bool) {
	s := p.slots[i]
	if p.closing || s.restarting || s.w == nil {
		return nil, false
	}
	s.restarting = true
	w := s.w
	w.abandoned.Store(true)
	close(w.inbox) // ninguém mais envia: Dispatch e Close pulam slots reiniciando
	w.leave.Do(p.wg.Done)
	return p.release(func(f *flight) bool { return f.worker == i }), true
}

// expire converte vôos vencidos em Timeout. Um worker com pedido vencido é
// tratado como travado: os pedidos enfileirados atrás dele também viram
// Timeout e ele é substituído após o cooldown.
func (p *Pool) expire(now time.Time) {
	p.mu.Lock()
	expired := p.release(func(f *flight) bool { return now.After(f.deadline) })
	p.stats.Timeouts += len(expired)

	var stuck []int
	var queued []*flight
	for _, f := range expired {
		lost, ok := p.abandon(f.worker)
		if !ok {
			continue
		}
		stuck = append(stuck, f.worker)
		queued = append(queued, lost...)
	}
	closing := p.closing
	p.mu.Unlock()

	if closing {
		return
	}
	for _, f := range expired {
		log.Printf("[Pool] Timeout: %v geração %d no worker %d", f.header.Key, f.header.Generation, f.worker)
		p.emit(timeoutError(f, fmt.Errorf("%w após %v", ErrTimeout, p.opts.Timeout)))
	}
	for _, f := range queued {
		p.emit(timeoutError(f, fmt.Errorf("%w: worker %d travado", ErrTimeout, f.worker)))
	}
	for _, i := range stuck {
		log.Printf("[Pool] Worker %d travado; reiniciando em %v", i, p.opts.RestartCooldown)
		p.scheduleRestart(i)
	}
}

func timeoutError(f *flight, err error) Error {
	return Error{
		ID:         f.id,
		Key:        f.header.Key,
		Generation: f.header.Generation,
		Worker:     f.worker,
		Reason:     Timeout,
		Err:        err,
	}
}

func (p *Pool) handleCrash(c crash) {
	p.mu.Lock()
	s := p.slots[c.worker]
	if s.w == nil || s.w.incarnation != c.incarnation {
		p.mu.Unlock()
		return
	}
	lost, ok := p.abandon(c.worker)
	if !ok {
		// Já abandonado por timeout; o reinício está agendado.
		p.mu.Unlock()
		return
	}
	p.stats.Crashes++
	closing := p.closing
	p.mu.Unlock()

	log.Printf("[Pool] Worker %d caiu (%v); %d pedidos perdidos, reiniciando em %v",
		c.worker, c.cause, len(lost), p.opts.RestartCooldown)

	if closing {
		return
	}
	for _, f := range lost {
		p.emit(Error{
			ID:         f.id,
			Key:        f.header.Key,
			Generation: f.header.Generation,
			Worker:     f.worker,
			Reason:     WorkerCrashed,
			Err:        fmt.Errorf("%w: %v", ErrWorkerCrashed, c.cause),
		})
	}
	p.scheduleRestart(c.worker)
}

func (p *Pool) scheduleRestart(i int) {
	time.AfterFunc(p.opts.RestartCooldown, func() { p.restart(i) })
}

func (p *Pool) restart(i int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closing || !p.slots[i].restarting {
		return
	}
	p.startWorker(i)
	p.stats.Restarts++
	log.Printf("[Pool] Worker %d reiniciado", i)
}

// Stats retorna contadores do pool.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	st := p.stats
	st.InFlight = len(p.inflight)
	return st
}

// Close envia Dispose a cada worker vivo, espera todos terminarem e fecha
// o canal de respostas. Respostas que chegarem durante o encerramento são
// descartadas.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closing {
		p.mu.Unlock()
		return
	}
	p.closing = true
	var live []*worker
	for _, s := range p.slots {
		if !s.restarting && s.w != nil {
			live = append(live, s.w)
		}
	}
	p.mu.Unlock()

	// Workers bloqueados entregando em raw saem pelo stop.
	close(p.stop)
	for _, w := range live {
		select {
		case w.inbox <- Dispose{}:
		case <-w.done:
		}
	}
	p.wg.Wait()
	<-p.loopDone
	close(p.out)
	log.Printf("[Pool] Encerrado")
}
