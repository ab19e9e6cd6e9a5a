package structs

type CreateTicketRequest struct {
	IDCliente   int64  `json:"idcliente" binding:"required"`
	DP          int    `json:"dp"`
	Asunto      string `json:"asunto" binding:"required"`
	Solicitante string `json:"solicitante,omitempty"`
	FechaVisita string `json:"fechavisita" binding:"required"`
	Turno       string `json:"turno" binding:"required"`
	Agendado    string `json:"agendado" binding:"required"`
	Contenido   string `json:"contenido" binding:"required"`
}

type CloseTicketRequest struct {
	IDTicket     int64  `json:"idticket" binding:"required"`
	MotivoCierre string `json:"motivo_cierre"`
}
