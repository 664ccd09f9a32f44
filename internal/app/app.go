package app

import (
	"fmt"
	"log"

	"VoxelStream/internal/camera"
	"VoxelStream/internal/render/gpu"
	"VoxelStream/internal/worker"
	"VoxelStream/internal/world"
	"VoxelStream/shared/config"
	"VoxelStream/shared/voxel"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// reach é o alcance do raio de seleção, em blocos.
const reach = 96

// App é o visualizador interativo do VoxelStream.
type App struct {
	Config *config.Config
	Cam    *camera.Orbit

	pool     *worker.Pool
	store    *world.Store
	editor   *world.Editor
	renderer *gpu.Renderer
	debris   *gpu.Debris

	hover     world.RaycastHit
	placeType voxel.BlockType

	frameCount int
	message    string
	messageAt  float64
}

// New cria uma nova instância da aplicação.
func New(cfg *config.Config) *App {
	return &App{Config: cfg, placeType: voxel.Stone}
}

// Run abre a janela e roda o loop principal até ela ser fechada.
// Tudo que toca o Store ou a GPU roda nesta goroutine.
func (a *App) Run() error {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Erro fatal recuperado: %v", r)
			panic(r)
		}
	}()

	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(a.Config.WindowWidth, a.Config.WindowHeight, a.Config.WindowTitle)
	defer rl.CloseWindow()
	rl.SetTraceLogLevel(rl.LogWarning)
	rl.SetTargetFPS(a.Config.TargetFPS)

	log.Printf("[App] Janela %dx%d", a.Config.WindowWidth, a.Config.WindowHeight)

	a.renderer = gpu.NewRenderer(a.Config.ChunkSize)
	a.renderer.Wireframe = a.Config.WireframeMode
	a.debris = gpu.NewDebris(512, a.Config.Seed)

	wopts, err := WorldOptions(a.Config)
	if err != nil {
		return err
	}
	popts, err := PoolOptions(a.Config)
	if err != nil {
		return err
	}

	log.Printf("[App] Iniciando %d workers (mesher %s, terreno %s)", a.Config.Workers, a.Config.Mesher, a.Config.Terrain)
	a.pool = worker.NewPool(popts)

	store, err := world.NewStore(wopts, a.pool, a.renderer)
	if err != nil {
		a.pool.Close()
		return fmt.Errorf("store: %w", err)
	}
	a.store = store
	a.editor = world.NewEditor(store)

	start := mgl32.Vec3{0, float32(a.Config.ChunkHeight) / 2, 0}
	a.Cam = camera.New(start, a.Config.FOV)

	for !rl.WindowShouldClose() {
		a.update()
		a.draw()
	}

	a.shutdown()
	return nil
}

func (a *App) update() {
	a.frameCount++
	dt := rl.GetFrameTime()

	a.Cam.HandleInput(dt)
	a.Cam.Update(dt)

	a.store.Update(a.Cam.CurrentLookAt)
	a.store.Pump(a.Config.PumpBudget())

	origin, dir := a.Cam.MouseRay()
	a.hover = a.store.Raycast(origin, dir, reach)

	a.updateInput()
	a.debris.Update(dt)
}

// notify mostra uma mensagem curta no HUD e registra no log.
func (a *App) notify(format string, args ...any) {
	a.message = fmt.Sprintf(format, args...)
	a.messageAt = rl.GetTime()
	log.Printf("[App] %s", a.message)
}

func (a *App) shutdown() {
	log.Println("[App] Finalizando aplicação...")

	a.store.Close()
	a.renderer.Unload()
	a.pool.Close()

	st := a.pool.Stats()
	log.Printf("[App] Pool: %d timeouts, %d crashes, %d reinícios, %d respostas tardias",
		st.Timeouts, st.Crashes, st.Restarts, st.Late)
}
