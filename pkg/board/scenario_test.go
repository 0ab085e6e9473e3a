package board

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type scenario struct {
	Name   string  `yaml:"name"`
	Rows   int     `yaml:"rows"`
	Cols   int     `yaml:"cols"`
	Mines  int     `yaml:"mines"`
	Layout [][]int `yaml:"layout"`
	Moves  []struct {
		Op string `yaml:"op"`
		At []int  `yaml:"at"`
	} `yaml:"moves"`
	Status    string `yaml:"status"`
	Opened    int    `yaml:"opened"`
	Remaining int    `yaml:"remaining"`
	Board     string `yaml:"board"`
}

func loadScenarios(t *testing.T) []scenario {
	t.Helper()

	data, err := os.ReadFile("testdata/scenarios.yaml")
	require.NoError(t, err)
	var scenarios []scenario
	require.NoError(t, yaml.Unmarshal(data, &scenarios))
	require.NotEmpty(t, scenarios)
	return scenarios
}

func TestScenarios(t *testing.T) {
	for _, sc := range loadScenarios(t) {
		t.Run(sc.Name, func(t *testing.T) {
			layout := make([]Coord, len(sc.Layout))
			for i, p := range sc.Layout {
				require.Len(t, p, 2)
				layout[i] = Coord{Row: p[0], Col: p[1]}
			}
			b, err := Initialize(Size{Rows: sc.Rows, Cols: sc.Cols}, sc.Mines, WithLayout(layout...))
			require.NoError(t, err)

			for _, m := range sc.Moves {
				require.Len(t, m.At, 2)
				at := Coord{Row: m.At[0], Col: m.At[1]}
				switch m.Op {
				case "reveal":
					b = mustReveal(t, b, at)
				case "mark":
					b = mustMark(t, b, at)
				default:
					t.Fatalf("unknown op %q", m.Op)
				}
			}

			assert.Equal(t, sc.Status, b.Status().String())
			assert.Equal(t, sc.Opened, b.OpenedCells())
			assert.Equal(t, sc.Remaining, b.RemainingMarks())
			assert.Equal(t, sc.Board, b.String())
		})
	}
}
