package world

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"VoxelStream/internal/meshing"
	"VoxelStream/internal/render"
	"VoxelStream/internal/worker"
	"VoxelStream/shared/util"
	"VoxelStream/shared/voxel"

	"github.com/go-gl/mathgl/mgl32"
)

// Options configura o Store.
type Options struct {
	ChunkSize            int
	ChunkHeight          int
	RenderDistance       int // raio Chebyshev, em chunks
	EvictionMargin       int // descarrega além de RenderDistance + EvictionMargin
	MaxDispatchPerUpdate int // 0 = sem limite
	MaxRetries           int
	Mesher               string
	CullBorders          bool // malhas consideram os vizinhos residentes
}

// Validate verifica as opções.
func (o Options) Validate() error {
	switch {
	case o.ChunkSize <= 0 || o.ChunkHeight <= 0:
		return fmt.Errorf("%w: chunk %dx%d", ErrInvalidOptions, o.ChunkSize, o.ChunkHeight)
	case o.RenderDistance < 0:
		return fmt.Errorf("%w: render distance %d", ErrInvalidOptions, o.RenderDistance)
	case o.EvictionMargin < 1:
		return fmt.Errorf("%w: eviction margin %d < 1", ErrInvalidOptions, o.EvictionMargin)
	case o.MaxDispatchPerUpdate < 0 || o.MaxRetries < 0:
		return fmt.Errorf("%w: limites negativos", ErrInvalidOptions)
	}
	if _, err := meshing.ByName(o.Mesher); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	return nil
}

type pendingRequest struct {
	generation uint64
	kind       worker.Kind
	sides      uint8
}

// Stats é um retrato do store.
type Stats struct {
	Records      int
	Resident     int
	Requested    int
	Regenerating int
	Failed       int
	Pending      int
	Queued       int

	Installs         int
	PooledReuse      int
	StaleDrops       int
	Errors           int
	DispatchFailures int
	Evictions        int
	Edits            int
}

// Store mantém os chunks em torno do observador. Pertence à goroutine
// coordenadora: nenhum método é seguro para uso concorrente. Só os workers
// rodam em paralelo, atrás do Dispatcher.
type Store struct {
	opts     Options
	disp     worker.Dispatcher
	renderer render.Renderer

	records map[util.ChunkKey]*Record
	// Em voo por chave. Sobrevive ao descarregamento: uma chave que volta ao
	// alcance adota o generate pendente em vez de pedir outro.
	pending map[util.ChunkKey]pendingRequest
	retry   *util.UniqueQueue[util.ChunkKey, struct{}]
	geoms   GeometryPool

	nextGen uint64 // global: nunca se repete, nem após descarregar e recriar
	center  util.ChunkKey
	located bool
	mesher  string
	stats   Stats
}

// NewStore cria um store vazio.
func NewStore(opts Options, disp worker.Dispatcher, r render.Renderer) (*Store, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Store{
		opts:     opts,
		disp:     disp,
		renderer: r,
		records:  make(map[util.ChunkKey]*Record),
		pending:  make(map[util.ChunkKey]pendingRequest),
		retry:    util.NewUniqueQueue[util.ChunkKey, struct{}](),
		mesher:   opts.Mesher,
	}, nil
}

// Options retorna as opções do store.
func (s *Store) Options() Options { return s.opts }

// Center retorna o chunk do observador na última atualização.
func (s *Store) Center() util.ChunkKey { return s.center }

// Record retorna uma cópia do registro da chave.
func (s *Store) Record(key util.ChunkKey) (Record, bool) {
	rec, ok := s.records[key]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// SetMesher troca o mesher usado nos próximos pedidos.
func (s *Store) SetMesher(name string) error {
	m, err := meshing.ByName(name)
	if err != nil {
		return err
	}
	s.mesher = m.Name()
	log.Printf("[Store] Mesher: %s", s.mesher)
	return nil
}

// Mesher retorna o nome do mesher atual.
func (s *Store) Mesher() string {
	if s.mesher == "" {
		return meshing.Greedy{}.Name()
	}
	return s.mesher
}

func (s *Store) inRange(key util.ChunkKey) bool {
	return s.located && key.Chebyshev(s.center) <= s.opts.RenderDistance
}

// Update recalcula o conjunto de chunks em torno do observador: descarrega
// os que passaram de R+margem e despacha generate para os que faltam,
// do mais próximo para o mais distante. Retorna quantos foram despachados.
func (s *Store) Update(viewer mgl32.Vec3) int {
	center := util.ChunkAt(viewer, s.opts.ChunkSize)
	s.center, s.located = center, true

	limit := s.opts.RenderDistance + s.opts.EvictionMargin
	for key, rec := range s.records {
		if key.Chebyshev(center) > limit {
			s.evict(rec)
		}
	}

	r := s.opts.RenderDistance
	var want []util.ChunkKey
	for dz := -r; dz <= r; dz++ {
		for dx := -r; dx <= r; dx++ {
			key := center.Add(dx, dz)
			rec, ok := s.records[key]
			if !ok {
				rec = s.create(key)
			}
			if rec.State != Empty {
				continue
			}
			if _, busy := s.pending[key]; busy {
				continue
			}
			want = append(want, key)
		}
	}

	sort.Slice(want, func(i, j int) bool { return closer(center, want[i], want[j]) })

	dispatched := 0
	for _, key := range want {
		if s.opts.MaxDispatchPerUpdate > 0 && dispatched >= s.opts.MaxDispatchPerUpdate {
			break
		}
		if err := s.generate(s.records[key]); err != nil {
			if errors.Is(err, worker.ErrClosed) {
				break
			}
			continue
		}
		dispatched++
	}
	return dispatched
}

func closer(center, a, b util.ChunkKey) bool {
	da, db := a.Chebyshev(center), b.Chebyshev(center)
	if da != db {
		return da < db
	}
	ea := (a.X-center.X)*(a.X-center.X) + (a.Z-center.Z)*(a.Z-center.Z)
	eb := (b.X-center.X)*(b.X-center.X) + (b.Z-center.Z)*(b.Z-center.Z)
	if ea != eb {
		return ea < eb
	}
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Z < b.Z
}

func (s *Store) create(key util.ChunkKey) *Record {
	rec := &Record{Key: key, State: Empty}
	if p, ok := s.pending[key]; ok && p.kind == worker.KindGenerate {
		rec.State = Requested
		rec.Generation = p.generation
	}
	s.records[key] = rec
	return rec
}

func (s *Store) evict(rec *Record) {
	if rec.Mesh != nil {
		s.renderer.Detach(rec.Key)
		s.geoms.Put(rec.Mesh)
		rec.Mesh = nil
	}
	rec.Buffer = nil
	rec.State = Evicted
	delete(s.records, rec.Key)
	s.retry.Remove(rec.Key)
	s.stats.Evictions++
}

func (s *Store) header(key util.ChunkKey) (worker.Header, uint8) {
	s.nextGen++
	h := worker.NewHeader(key, s.nextGen, s.opts.ChunkSize, s.opts.ChunkHeight)
	h.Mesher = s.mesher
	var sides uint8
	if s.opts.CullBorders {
		h.Borders, sides = s.borders(key)
	}
	return h, sides
}

// borders copia as bordas dos vizinhos residentes.
func (s *Store) borders(key util.ChunkKey) (*voxel.Borders, uint8) {
	var b voxel.Borders
	var sides uint8
	for _, side := range voxel.Sides {
		nb := s.records[key.Add(side.Offset())]
		if nb == nil || !nb.Resident() {
			continue
		}
		b.Set(side, voxel.EdgeOf(nb.Buffer, side.Opposite()))
		sides |= 1 << uint(side)
	}
	if sides == 0 {
		return nil, 0
	}
	return &b, sides
}

func (s *Store) generate(rec *Record) error {
	h, sides := s.header(rec.Key)
	if err := s.disp.Dispatch(worker.Generate{Header: h}); err != nil {
		s.stats.DispatchFailures++
		log.Printf("[Store] generate %v adiado: %v", rec.Key, err)
		return err
	}
	rec.State = Requested
	rec.Generation = h.Generation
	s.pending[rec.Key] = pendingRequest{generation: h.Generation, kind: worker.KindGenerate, sides: sides}
	return nil
}

// regenerate envia uma cópia do buffer, que passa a ser do worker; o store
// continua dono do original para aceitar novas edições enquanto a malha é refeita.
func (s *Store) regenerate(rec *Record) error {
	h, sides := s.header(rec.Key)
	buf := rec.Buffer.Clone()
	if err := s.disp.Dispatch(worker.Regenerate{Header: h, Buffer: buf}); err != nil {
		s.stats.DispatchFailures++
		return err
	}
	rec.State = Regenerating
	rec.Generation = h.Generation
	rec.Dirty = false
	s.pending[rec.Key] = pendingRequest{generation: h.Generation, kind: worker.KindRegenerate, sides: sides}
	return nil
}

// requestRegenerate agenda uma nova malha. Com um regenerate já em voo,
// só marca Dirty: há no máximo um pedido por chave.
func (s *Store) requestRegenerate(rec *Record) {
	switch rec.State {
	case Regenerating:
		rec.Dirty = true
	case Generated:
		if err := s.regenerate(rec); err != nil {
			log.Printf("[Store] regenerate %v na fila: %v", rec.Key, err)
			rec.Dirty = true
			s.retry.Enqueue(rec.Key, struct{}{})
		}
	}
}

// RemeshAll pede nova malha para todos os chunks residentes (ex.: após SetMesher).
func (s *Store) RemeshAll() {
	for _, rec := range s.records {
		if rec.Resident() {
			s.requestRegenerate(rec)
		}
	}
}

func (s *Store) flushRetries() {
	for n := s.retry.Len(); n > 0; n-- {
		key, _, ok := s.retry.Dequeue()
		if !ok {
			return
		}
		rec, ok := s.records[key]
		if !ok {
			continue
		}
		s.requestRegenerate(rec)
	}
}

// Pump consome respostas dos workers até esgotar o orçamento de tempo ou a
// fila. Com budget <= 0 consome tudo o que já chegou. Deve rodar na goroutine
// coordenadora (a mesma do renderer). Retorna quantas respostas tratou.
func (s *Store) Pump(budget time.Duration) int {
	s.flushRetries()

	start := time.Now()
	handled := 0
	for budget <= 0 || time.Since(start) < budget {
		select {
		case resp, ok := <-s.disp.Responses():
			if !ok {
				return handled
			}
			s.Handle(resp)
			handled++
		default:
			return handled
		}
	}
	return handled
}

// Handle aplica uma resposta de worker. Retorna ErrStaleResponse quando a
// resposta foi descartada por não corresponder ao pedido atual da chave.
func (s *Store) Handle(resp worker.Response) error {
	switch r := resp.(type) {
	case worker.Initialized:
		log.Printf("[Store] Worker %d pronto", r.Worker)
		return nil
	case worker.ChunkGenerated:
		return s.onGenerated(r)
	case worker.ChunkRegenerated:
		return s.onRegenerated(r)
	case worker.Error:
		return s.onError(r)
	default:
		panic(fmt.Sprintf("world: resposta desconhecida %T", resp))
	}
}

// settle remove a chave do conjunto em voo se a geração bater.
func (s *Store) settle(key util.ChunkKey, generation uint64) pendingRequest {
	p, ok := s.pending[key]
	if ok && p.generation == generation {
		delete(s.pending, key)
		return p
	}
	return pendingRequest{}
}

func (s *Store) dropStale(key util.ChunkKey, generation uint64, mesh meshing.MeshBuffers) error {
	s.stats.StaleDrops++
	meshing.Recycle(mesh)
	return fmt.Errorf("%w: %v geração %d", ErrStaleResponse, key, generation)
}

func (s *Store) install(rec *Record, generation uint64, mesh meshing.MeshBuffers, sides uint8) {
	reused := s.geoms.Len() > 0
	old := rec.Mesh
	rec.Mesh = s.geoms.Get(rec.Key, generation, mesh)
	rec.State = Generated
	rec.Retries = 0
	rec.Err = nil
	rec.sides = sides

	s.renderer.Install(rec.Key, mesh)
	s.geoms.Put(old)

	s.stats.Installs++
	if reused {
		s.stats.PooledReuse++
	}
}

func (s *Store) onGenerated(r worker.ChunkGenerated) error {
	p := s.settle(r.Key, r.Generation)

	rec, ok := s.records[r.Key]
	if !ok {
		if !s.inRange(r.Key) {
			return s.dropStale(r.Key, r.Generation, r.Mesh)
		}
		rec = &Record{Key: r.Key, State: Requested, Generation: r.Generation}
		s.records[r.Key] = rec
	}
	if rec.State != Requested || rec.Generation != r.Generation {
		return s.dropStale(r.Key, r.Generation, r.Mesh)
	}

	rec.Buffer = r.Buffer
	s.install(rec, r.Generation, r.Mesh, p.sides)
	s.refreshBorders(rec)
	return nil
}

func (s *Store) onRegenerated(r worker.ChunkRegenerated) error {
	p := s.settle(r.Key, r.Generation)

	rec, ok := s.records[r.Key]
	if !ok || rec.State != Regenerating || rec.Generation != r.Generation {
		return s.dropStale(r.Key, r.Generation, r.Mesh)
	}

	s.install(rec, r.Generation, r.Mesh, p.sides)
	if rec.Dirty {
		s.requestRegenerate(rec)
		return nil
	}
	s.refreshBorders(rec)
	return nil
}

func (s *Store) onError(r worker.Error) error {
	s.settle(r.Key, r.Generation)

	rec, ok := s.records[r.Key]
	if !ok || rec.Generation != r.Generation || (rec.State != Requested && rec.State != Regenerating) {
		s.stats.StaleDrops++
		return fmt.Errorf("%w: %v", ErrStaleResponse, r)
	}
	s.stats.Errors++
	rec.Retries++
	rec.Err = r

	switch rec.State {
	case Requested:
		if rec.Retries > s.opts.MaxRetries {
			rec.State = Failed
			log.Printf("[Store] %v: %v", r.Key, s.Status(r.Key))
			return nil
		}
		// Volta para Empty; o próximo Update despacha de novo.
		rec.State = Empty
		log.Printf("[Store] %v: tentativa %d/%d falhou: %v", r.Key, rec.Retries, s.opts.MaxRetries, r)

	case Regenerating:
		// Mantém a malha anterior.
		rec.State = Generated
		if rec.Retries > s.opts.MaxRetries {
			// As edições pendentes ficam no buffer; a próxima edição refaz a malha.
			log.Printf("[Store] %v: desistindo de refazer a malha: %v", r.Key, r)
			rec.Retries = 0
			rec.Dirty = false
			return nil
		}
		s.requestRegenerate(rec)
	}
	return nil
}

// Status informa por que um chunk não tem malha. nil para chunks carregados
// ou ainda a caminho; ErrOutOfChunkBounds fora do alcance; para chunks que
// esgotaram as tentativas, ErrPermanentlyFailed junto com a última causa
// (por exemplo ErrTerrainSource ou ErrTimeout).
func (s *Store) Status(key util.ChunkKey) error {
	rec, ok := s.records[key]
	if !ok {
		return fmt.Errorf("%w: chunk %v não está carregado", ErrOutOfChunkBounds, key)
	}
	if rec.State != Failed {
		return nil
	}
	return fmt.Errorf("%w após %d tentativas: %w", ErrPermanentlyFailed, rec.Retries, rec.Err)
}

// refreshBorders refaz malhas que foram geradas sem a borda de um vizinho
// que agora está residente.
func (s *Store) refreshBorders(rec *Record) {
	if !s.opts.CullBorders || !rec.Resident() {
		return
	}
	self := false
	for _, side := range voxel.Sides {
		nb := s.records[rec.Key.Add(side.Offset())]
		if nb == nil || !nb.Resident() {
			continue
		}
		if rec.sides&(1<<uint(side)) == 0 {
			self = true
		}
		if nb.sides&(1<<uint(side.Opposite())) == 0 {
			s.requestRegenerate(nb)
		}
	}
	if self {
		s.requestRegenerate(rec)
	}
}

// Stats retorna contadores e a contagem de registros por estado.
func (s *Store) Stats() Stats {
	st := s.stats
	st.Records = len(s.records)
	st.Pending = len(s.pending)
	st.Queued = s.retry.Len()
	for _, rec := range s.records {
		switch rec.State {
		case Generated:
			st.Resident++
		case Regenerating:
			st.Resident++
			st.Regenerating++
		case Requested:
			st.Requested++
		case Failed:
			st.Failed++
		}
	}
	return st
}

// Close descarrega todos os chunks.
func (s *Store) Close() {
	for _, rec := range s.records {
		s.evict(rec)
	}
}
