package scoring

import "github.com/okian/bottleneck/internal/domain/model"

// Compatible reports whether the CPU physically fits the board.
func Compatible(cpu model.CPU, mb model.Motherboard) bool {
	return cpu.Socket == mb.Socket
}
