package modes

type Mode uint8

const (
	ModeProduction Mode = iota
	ModeDevelopment
)

func (m Mode) String() string {
	switch m {
	case ModeDevelopment:
		return "development"
	}
	return "production"
}
