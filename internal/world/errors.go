package world

import (
	"errors"

	"VoxelStream/internal/terrain"
	"VoxelStream/internal/worker"
)

var (
	ErrOutOfChunkBounds  = errors.New("world: posição fora de um chunk gerado")
	ErrNothingToRemove   = errors.New("world: nada para remover")
	ErrInvalidBlock      = errors.New("world: tipo de bloco inválido")
	ErrPermanentlyFailed = errors.New("world: chunk falhou permanentemente")
	ErrInvalidOptions    = errors.New("world: opções inválidas")

	// Devolvido por Handle quando a resposta não corresponde ao pedido atual.
	ErrStaleResponse = errors.New("world: resposta obsoleta")

	ErrWorkerUnavailable = worker.ErrWorkerUnavailable
	ErrTimeout           = worker.ErrTimeout
	ErrTerrainSource     = terrain.ErrFillFailed
)
