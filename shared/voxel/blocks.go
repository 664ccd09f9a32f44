package voxel

import "strings"

// BlockType é o tipo de um voxel. 0 é sempre ar.
type BlockType uint8

const (
	Air BlockType = iota
	Grass
	Dirt
	Stone
	Sand
	Water
	Wood
	Leaves
	Snow
	Bedrock
)

// BlockInfo descreve a aparência de um tipo de bloco.
// Segue o formato da tabela de cores nomeadas (token, nome, RGB).
type BlockInfo struct {
	Token   string
	Name    string
	R, G, B uint8
}

// BlockList é a paleta embutida indexada por BlockType.
var BlockList = []BlockInfo{
	Air:     {"AIR", "ar", 0, 0, 0},
	Grass:   {"GRASS", "grama", 95, 159, 53},
	Dirt:    {"DIRT", "terra", 134, 96, 67},
	Stone:   {"STONE", "pedra", 125, 125, 125},
	Sand:    {"SAND", "areia", 219, 207, 163},
	Water:   {"WATER", "água", 64, 96, 220},
	Wood:    {"WOOD", "madeira", 102, 81, 51},
	Leaves:  {"LEAVES", "folhas", 60, 120, 40},
	Snow:    {"SNOW", "neve", 240, 246, 250},
	Bedrock: {"BEDROCK", "rocha-mãe", 40, 40, 44},
}

// unknownColor destaca tipos fora da paleta (magenta).
var unknownColor = [3]float32{1, 0, 1}

// Color retorna a cor do tipo de bloco (sem interpolação, uma cor por face).
func Color(t BlockType) [3]float32 {
	if int(t) >= len(BlockList) {
		return unknownColor
	}
	info := BlockList[t]
	return [3]float32{float32(info.R) / 255, float32(info.G) / 255, float32(info.B) / 255}
}

// String retorna o token do bloco.
func (t BlockType) String() string {
	if int(t) < len(BlockList) {
		return BlockList[t].Token
	}
	return "UNKNOWN"
}

// ParseBlock converte um token (ex: "stone") no BlockType correspondente.
func ParseBlock(token string) (BlockType, bool) {
	token = strings.ToUpper(strings.TrimSpace(token))
	for i, info := range BlockList {
		if info.Token == token {
			return BlockType(i), true
		}
	}
	return Air, false
}
