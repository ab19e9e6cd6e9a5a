package structs

// Invoice states as the CRM encodes them.
const (
	InvoiceStatePaid   = 0
	InvoiceStateUnpaid = 1
	InvoiceStateVoided = 2
)

type CreateInvoiceRequest struct {
	IDCliente   int64  `json:"idcliente" binding:"required"`
	Vencimiento string `json:"vencimiento" binding:"required"`
}

type PaymentCreateRequest struct {
	IDFactura     int64   `json:"idfactura" binding:"required"`
	Pasarela      string  `json:"pasarela" binding:"required"`
	Cantidad      float64 `json:"cantidad,omitempty"`
	Comision      float64 `json:"comision,omitempty"`
	IDTransaccion string  `json:"idtransaccion,omitempty"`
	Fecha         string  `json:"fecha,omitempty"`
}

type PromisePaymentRequest struct {
	IDFactura   int64  `json:"idfactura" binding:"required"`
	FechaLimite string `json:"fechalimite" binding:"required"`
	Descripcion string `json:"descripcion,omitempty"`
}
