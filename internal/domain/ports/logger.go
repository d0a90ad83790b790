package ports

// Logger é o logger estruturado usado por serviços e adaptadores.
// args são pares chave/valor.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}
