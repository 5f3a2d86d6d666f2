package entity

// Capacidades requeridas por los flujos de negocio. Cada operación de workflow
// exige una capacidad concreta antes de tocar el kardex.
const (
	CapCreateInvoice   = "CREATE_INVOICE"
	CapDeleteInvoice   = "DELETE_INVOICE"
	CapCreatePurchase  = "CREATE_PURCHASE"
	CapApprovePurchase = "APPROVE_PURCHASE"
	CapDeletePurchase  = "DELETE_PURCHASE"
	CapCreateReturn    = "CREATE_RETURN"
	CapApproveReturn   = "APPROVE_RETURN"
	CapAdjustStock     = "ADJUST_STOCK"
	CapManageProducts  = "MANAGE_PRODUCTS"
	CapViewLedger      = "VIEW_LEDGER"
)

// roleCapabilities mapea rol -> capacidades. El admin tiene todas; el bodeguero opera
// compras, devoluciones y ajustes; el vendedor solo factura y consulta.
var roleCapabilities = map[string]map[string]bool{
	RoleAdmin: {
		CapCreateInvoice: true, CapDeleteInvoice: true,
		CapCreatePurchase: true, CapApprovePurchase: true, CapDeletePurchase: true,
		CapCreateReturn: true, CapApproveReturn: true,
		CapAdjustStock: true, CapManageProducts: true, CapViewLedger: true,
	},
	RoleBodeguero: {
		CapCreatePurchase: true, CapApprovePurchase: true,
		CapCreateReturn: true, CapApproveReturn: true,
		CapAdjustStock: true, CapViewLedger: true,
	},
	RoleVendedor: {
		CapCreateInvoice: true, CapCreateReturn: true, CapViewLedger: true,
	},
}

// RoleHasCapability indica si un rol incluye la capacidad dada.
func RoleHasCapability(role, capability string) bool {
	return roleCapabilities[role][capability]
}
