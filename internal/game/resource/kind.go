package resource

import "fmt"

// Kind identifica um tipo de recurso contável do jogador.
// É uma enumeração fechada: adicionar um novo recurso significa adicionar
// uma nova constante aqui (e em kinds), nunca registrar dinamicamente.
type Kind string

const (
	// Coin é o recurso de moeda genérica do jogo.
	Coin Kind = "Coin"

	// Roll é o recurso de rolls/turnos.
	Roll Kind = "Roll"
)

// kinds é a lista canônica de todos os tipos de recurso.
var kinds = []Kind{Coin, Roll}

// Kinds retorna todos os tipos de recurso conhecidos.
// O slice retornado é uma cópia; o chamador pode modificá-lo à vontade.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// ParseKind valida um nome de recurso vindo da rede e o converte para Kind.
func ParseKind(name string) (Kind, error) {
	for _, k := range kinds {
		if string(k) == name {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, name)
}
