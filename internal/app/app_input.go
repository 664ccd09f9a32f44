package app

import (
	"errors"

	"VoxelStream/internal/world"
	"VoxelStream/shared/voxel"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// placeable são os blocos selecionáveis pelas teclas 1..9.
var placeable = []voxel.BlockType{
	voxel.Stone, voxel.Dirt, voxel.Grass, voxel.Sand, voxel.Wood,
	voxel.Leaves, voxel.Snow, voxel.Water, voxel.Bedrock,
}

// updateInput processa edição e atalhos de teclado.
func (a *App) updateInput() {
	if rl.IsKeyPressed(rl.KeyF3) {
		a.Config.ShowDebugInfo = !a.Config.ShowDebugInfo
	}
	if rl.IsKeyPressed(rl.KeyF4) {
		a.Config.WireframeMode = !a.Config.WireframeMode
		a.renderer.Wireframe = a.Config.WireframeMode
	}

	// M: troca o mesher; a troca vale a partir da próxima geração.
	if rl.IsKeyPressed(rl.KeyM) {
		next := "culling"
		if a.store.Mesher() == "culling" {
			next = "greedy"
		}
		if err := a.store.SetMesher(next); err != nil {
			a.notify("Mesher: %v", err)
		} else {
			a.store.RemeshAll()
			a.notify("Mesher: %s", next)
		}
	}

	for i, t := range placeable {
		if rl.IsKeyPressed(int32(rl.KeyOne) + int32(i)) {
			a.placeType = t
			a.notify("Bloco: %s", voxel.BlockList[t].Name)
		}
	}

	if !a.hover.Hit {
		return
	}

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		hit := a.hover
		if err := a.editor.Remove(hit.Position); err != nil {
			a.editFailed(err)
			return
		}
		p := hit.Position
		a.debris.Burst(float32(p.X), float32(p.Y), float32(p.Z), voxel.Color(hit.Block), 24)
	}

	if rl.IsMouseButtonPressed(rl.MouseRightButton) {
		if err := a.editor.Place(a.hover.Adjacent(), a.placeType); err != nil {
			a.editFailed(err)
		}
	}
}

func (a *App) editFailed(err error) {
	switch {
	case errors.Is(err, world.ErrOutOfChunkBounds):
		a.notify("Fora da área carregada")
	case errors.Is(err, world.ErrNothingToRemove):
		a.notify("Nada para remover")
	default:
		a.notify("Edição falhou: %v", err)
	}
}
