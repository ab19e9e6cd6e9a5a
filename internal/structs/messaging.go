package structs

type SendSMSRequest struct {
	IDCliente int64  `json:"idcliente" binding:"required"`
	Mensaje   string `json:"mensaje" binding:"required,min=1,max=160"`
}

// ProcessMessageRequest is the ad-hoc payload accepted by /mensajes/procesar.
type ProcessMessageRequest struct {
	Data map[string]any `json:"data"`
}
