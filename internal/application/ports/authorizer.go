package ports

// Authorizer es el puerto hacia la capa de autorización. El core consume esta interfaz
// y nunca decide permisos por su cuenta: toda operación de workflow la invoca con su
// capacidad concreta antes de tocar el kardex.
type Authorizer interface {
	// Authorize devuelve nil si el actor posee la capacidad; domain.ErrUnauthorized
	// si el actor no existe o está inactivo, domain.ErrForbidden si no la posee.
	Authorize(actorID, capability string) error
}
