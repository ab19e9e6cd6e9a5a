package structs

// Request shapes mirror the CRM's Spanish field names; they are the wire
// contract and must not be renamed.

type CreateClientRequest struct {
	Nombre             string `json:"nombre" binding:"required,min=2,max=255"`
	Cedula             string `json:"cedula,omitempty"`
	Correo             string `json:"correo,omitempty" binding:"omitempty,email"`
	Telefono           string `json:"telefono,omitempty"`
	Movil              string `json:"movil,omitempty"`
	DireccionPrincipal string `json:"direccion_principal,omitempty"`
}

type UpdateClientRequest struct {
	Nombre             string `json:"nombre,omitempty" binding:"omitempty,min=2,max=255"`
	Correo             string `json:"correo,omitempty" binding:"omitempty,email"`
	Telefono           string `json:"telefono,omitempty"`
	Movil              string `json:"movil,omitempty"`
	Cedula             string `json:"cedula,omitempty"`
	Codigo             string `json:"codigo,omitempty"`
	DireccionPrincipal string `json:"direccion_principal,omitempty"`
	CampoPersonalizado string `json:"campo_personalizado,omitempty"`
}

type CreatePreRegistrationRequest struct {
	Cliente           string `json:"cliente" binding:"required"`
	Cedula            string `json:"cedula" binding:"required"`
	Direccion         string `json:"direccion" binding:"required"`
	Telefono          string `json:"telefono,omitempty"`
	Movil             string `json:"movil,omitempty"`
	Email             string `json:"email,omitempty" binding:"omitempty,email"`
	Notas             string `json:"notas,omitempty"`
	FechaInstalacion  string `json:"fecha_instalacion,omitempty"`
}
