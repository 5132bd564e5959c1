package server

// Server объединяет HTTP-обработчики по сущностям. Сейчас сущность одна:
// отслеживаемые товары.
type Server struct {
	ItemsServer
}

func NewServer(
	itemsServer ItemsServer,
) Server {
	return Server{
		ItemsServer: itemsServer,
	}
}
