package outfit

import "github.com/matzehuels/dressup/pkg/catalog"

// Body is the torso/leg garment arrangement of a selection: either a dress,
// or separate top and bottom garments. It is derived once per selection.
type Body interface {
	isBody()
}

// Dressed means a dress is worn; top and bottom selections are ignored.
type Dressed struct {
	Dress string
}

// Separates means no dress is worn. Either field may be empty.
type Separates struct {
	Up   string
	Down string
}

func (Dressed) isBody()   {}
func (Separates) isBody() {}

// BodyOf derives the body arrangement of a selection.
func BodyOf(s Selection) Body {
	if dress, ok := s.Get(catalog.Dress); ok {
		return Dressed{Dress: dress}
	}
	up, _ := s.Get(catalog.Up)
	down, _ := s.Get(catalog.Down)
	return Separates{Up: up, Down: down}
}
