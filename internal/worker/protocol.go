package worker

import (
	"errors"
	"fmt"

	"VoxelStream/internal/meshing"
	"VoxelStream/shared/util"
	"VoxelStream/shared/voxel"

	"github.com/google/uuid"
)

// Kind identifica a variante de uma mensagem do protocolo.
type Kind int

const (
	KindInit Kind = iota
	KindGenerate
	KindRegenerate
	KindDispose
	KindInitialized
	KindChunkGenerated
	KindChunkRegenerated
	KindError
)

var kindNames = [...]string{
	KindInit:             "Init",
	KindGenerate:         "Generate",
	KindRegenerate:       "Regenerate",
	KindDispose:          "Dispose",
	KindInitialized:      "Initialized",
	KindChunkGenerated:   "ChunkGenerated",
	KindChunkRegenerated: "ChunkRegenerated",
	KindError:            "Error",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Request é o conjunto fechado de mensagens coordenador -> worker.
type Request interface {
	Kind() Kind
	isRequest()
}

// Response é o conjunto fechado de mensagens worker -> coordenador.
type Response interface {
	Kind() Kind
	isResponse()
}

// Init configura o worker. A seed é a mesma em todos os workers, então
// qualquer worker pode repetir uma geração.
type Init struct {
	Seed   int64
	Mesher string
}

// Header é comum a todo pedido de chunk.
type Header struct {
	ID         uuid.UUID
	Key        util.ChunkKey
	Generation uint64
	Size       int
	Height     int
	Mesher     string         // vazio: mesher do Init
	Borders    *voxel.Borders // opcional; cópias, nunca compartilhadas
}

// NewHeader preenche um Header com um ID novo.
func NewHeader(key util.ChunkKey, generation uint64, size, height int) Header {
	return Header{ID: uuid.New(), Key: key, Generation: generation, Size: size, Height: height}
}

// Generate pede terreno + malha de um chunk novo.
type Generate struct {
	Header
}

// Regenerate pede só a malha. Buffer é movido para o worker e não volta.
type Regenerate struct {
	Header
	Buffer *voxel.Buffer
}

// Dispose encerra o worker depois dos pedidos já enfileirados.
type Dispose struct{}

type Initialized struct {
	Worker int
}

// ChunkGenerated transfere a posse de Buffer para quem recebe.
type ChunkGenerated struct {
	ID         uuid.UUID
	Key        util.ChunkKey
	Generation uint64
	Worker     int
	Buffer     *voxel.Buffer
	Mesh       meshing.MeshBuffers
}

type ChunkRegenerated struct {
	ID         uuid.UUID
	Key        util.ChunkKey
	Generation uint64
	Worker     int
	Mesh       meshing.MeshBuffers
}

// ErrorKind classifica falhas reportadas pelo pool.
type ErrorKind int

const (
	TerrainFailure ErrorKind = iota
	Timeout
	WorkerCrashed
	WorkerUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case TerrainFailure:
		return "TerrainFailure"
	case Timeout:
		return "Timeout"
	case WorkerCrashed:
		return "WorkerCrashed"
	case WorkerUnavailable:
		return "WorkerUnavailable"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

var (
	ErrWorkerUnavailable = errors.New("worker: indisponível")
	ErrTimeout           = errors.New("worker: tempo esgotado")
	ErrWorkerCrashed     = errors.New("worker: falha fatal")
	ErrClosed            = errors.New("worker: pool encerrado")
	ErrUnsupported       = errors.New("worker: pedido não suportado")
)

// Error reporta a falha de um pedido. Também implementa error.
type Error struct {
	ID         uuid.UUID
	Key        util.ChunkKey
	Generation uint64
	Worker     int
	Reason     ErrorKind
	Err        error
}

func (e Error) Error() string {
	return fmt.Sprintf("%v %v (geração %d, worker %d): %v", e.Reason, e.Key, e.Generation, e.Worker, e.Err)
}

func (e Error) Unwrap() error { return e.Err }

func (Init) Kind() Kind       { return KindInit }
func (Generate) Kind() Kind   { return KindGenerate }
func (Regenerate) Kind() Kind { return KindRegenerate }
func (Dispose) Kind() Kind    { return KindDispose }

func (Initialized) Kind() Kind      { return KindInitialized }
func (ChunkGenerated) Kind() Kind   { return KindChunkGenerated }
func (ChunkRegenerated) Kind() Kind { return KindChunkRegenerated }
func (Error) Kind() Kind            { return KindError }

func (Init) isRequest()       {}
func (Generate) isRequest()   {}
func (Regenerate) isRequest() {}
func (Dispose) isRequest()    {}

func (Initialized) isResponse()      {}
func (ChunkGenerated) isResponse()   {}
func (ChunkRegenerated) isResponse() {}
func (Error) isResponse()            {}

// HeaderOf extrai o Header de um pedido de chunk.
func HeaderOf(req Request) (Header, bool) {
	switch r := req.(type) {
	case Generate:
		return r.Header, true
	case Regenerate:
		return r.Header, true
	case Init, Dispose:
		return Header{}, false
	}
	panic(fmt.Sprintf("worker: pedido desconhecido %T", req))
}

// ResponseID devolve o ID do pedido respondido; Initialized não tem.
func ResponseID(resp Response) (uuid.UUID, bool) {
	switch r := resp.(type) {
	case ChunkGenerated:
		return r.ID, true
	case ChunkRegenerated:
		return r.ID, true
	case Error:
		return r.ID, true
	case Initialized:
		return uuid.Nil, false
	}
	panic(fmt.Sprintf("worker: resposta desconhecida %T", resp))
}

// Dispatcher é o lado do pool visto pelo coordenador.
type Dispatcher interface {
	Dispatch(req Request) error
	Responses() <-chan Response
}
