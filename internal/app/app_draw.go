package app

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// draw renderiza a cena.
func (a *App) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(135, 180, 220, 255))

	rl.BeginMode3D(a.Cam.RLCamera)
	a.renderer.Draw()
	a.debris.Draw()
	if a.hover.Hit {
		p := a.hover.Position
		center := rl.Vector3{X: float32(p.X) + 0.5, Y: float32(p.Y) + 0.5, Z: float32(p.Z) + 0.5}
		rl.DrawCubeWires(center, 1.02, 1.02, 1.02, rl.Black)
	}
	rl.EndMode3D()

	a.drawHUD()
	rl.EndDrawing()
}

// drawHUD desenha a interface sobreposta.
func (a *App) drawHUD() {
	// Mira
	cx, cy := int32(rl.GetScreenWidth()/2), int32(rl.GetScreenHeight()/2)
	rl.DrawLine(cx-6, cy, cx+6, cy, rl.White)
	rl.DrawLine(cx, cy-6, cx, cy+6, rl.White)

	if a.message != "" && rl.GetTime()-a.messageAt < 3 {
		rl.DrawText(a.message, 10, int32(rl.GetScreenHeight())-30, 18, rl.White)
	}

	if !a.Config.ShowDebugInfo {
		return
	}

	width := int32(320)
	height := int32(250)
	x := int32(rl.GetScreenWidth()) - width - 10
	y := int32(10)

	rl.DrawRectangle(x, y, width, height, rl.NewColor(0, 0, 0, 180))
	rl.DrawRectangleLines(x, y, width, height, rl.NewColor(50, 50, 50, 255))

	fps := rl.GetFPS()
	fpsColor := rl.Green
	if fps < 30 {
		fpsColor = rl.Red
	} else if fps < 50 {
		fpsColor = rl.Yellow
	}
	rl.DrawText(fmt.Sprintf("FPS: %d", fps), x+10, y+10, 20, fpsColor)
	rl.DrawText(a.store.Mesher(), x+200, y+10, 20, rl.SkyBlue)

	rl.DrawLine(x+10, y+35, x+width-10, y+35, rl.NewColor(100, 100, 100, 100))

	st := a.store.Stats()
	models, tris := a.renderer.Stats()
	c := a.store.Center()
	lines := []string{
		fmt.Sprintf("Centro: %v", c),
		fmt.Sprintf("Residentes: %d / %d registros", st.Resident, st.Records),
		fmt.Sprintf("Pedidos: %d  Regenerando: %d", st.Requested, st.Regenerating),
		fmt.Sprintf("Em voo: %d  Fila: %d", st.Pending, st.Queued),
		fmt.Sprintf("Falhos: %d  Erros: %d", st.Failed, st.Errors),
		fmt.Sprintf("Instalações: %d  Reuso: %d", st.Installs, st.PooledReuse),
		fmt.Sprintf("Descartes: %d  Evicções: %d", st.StaleDrops, st.Evictions),
		fmt.Sprintf("GPU: %d modelos, %d triângulos", models, tris),
		fmt.Sprintf("Partículas: %d", a.debris.Active()),
	}
	if a.hover.Hit {
		lines = append(lines, fmt.Sprintf("Alvo: %v %s", a.hover.Position, a.hover.Block))
	}
	for i, l := range lines {
		rl.DrawText(l, x+10, y+45+int32(i)*20, 16, rl.LightGray)
	}
}
