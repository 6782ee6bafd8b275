package entity

// Roles del sistema, de mayor a menor jerarquía.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleEditor     = "editor"
	RoleViewer     = "visualizador"
	RoleCustomer   = "cliente"
)

// Permisos.
const (
	PermBooksView        = "libros.ver"
	PermBooksEdit        = "libros.editar"
	PermBooksDelete      = "libros.eliminar"
	PermOrdersView       = "pedidos.ver"
	PermOrdersManage     = "pedidos.gestionar"
	PermClientsView      = "clientes.ver"
	PermClientsManage    = "clientes.gestionar"
	PermInvoicesManage   = "facturas.gestionar"
	PermUsersManage      = "usuarios.gestionar"
	PermSettingsView     = "configuracion.ver"
	PermSettingsEdit     = "configuracion.editar"
	PermMarketingManage  = "marketing.gestionar"
	PermExportData       = "exportar.datos"
	PermImportOrders     = "importar.pedidos"
	PermIntegrationsEdit = "integraciones.gestionar"
)

// Role rol con nivel jerárquico (1 = máximo) y lista de permisos.
type Role struct {
	ID          string
	Name        string
	DisplayName string
	Level       int
	Permissions []string
	Active      bool
	System      bool
}

// HasPermission indica si el rol incluye perm.
func (r *Role) HasPermission(perm string) bool {
	for _, p := range r.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// DefaultRoles catálogo inicial de roles (también sembrado por la migración).
func DefaultRoles() []*Role {
	all := []string{
		PermBooksView, PermBooksEdit, PermBooksDelete, PermOrdersView, PermOrdersManage,
		PermClientsView, PermClientsManage, PermInvoicesManage, PermUsersManage,
		PermSettingsView, PermSettingsEdit, PermMarketingManage, PermExportData,
		PermImportOrders, PermIntegrationsEdit,
	}
	return []*Role{
		{Name: RoleSuperAdmin, DisplayName: "Super administrador", Level: 1, Permissions: all, Active: true, System: true},
		{Name: RoleAdmin, DisplayName: "Administrador", Level: 2, Active: true, System: true, Permissions: []string{
			PermBooksView, PermBooksEdit, PermBooksDelete, PermOrdersView, PermOrdersManage,
			PermClientsView, PermClientsManage, PermInvoicesManage, PermUsersManage,
			PermSettingsView, PermSettingsEdit, PermMarketingManage, PermExportData, PermImportOrders,
		}},
		{Name: RoleEditor, DisplayName: "Editor", Level: 3, Active: true, System: true, Permissions: []string{
			PermBooksView, PermBooksEdit, PermOrdersView, PermOrdersManage,
			PermClientsView, PermClientsManage, PermMarketingManage, PermImportOrders,
		}},
		{Name: RoleViewer, DisplayName: "Visualizador", Level: 4, Active: true, System: true, Permissions: []string{
			PermBooksView, PermOrdersView, PermClientsView, PermSettingsView,
		}},
		{Name: RoleCustomer, DisplayName: "Cliente", Level: 10, Active: true, System: true},
	}
}

// RoleLevel nivel jerárquico de un rol conocido; 0 si no existe.
func RoleLevel(name string) int {
	for _, r := range DefaultRoles() {
		if r.Name == name {
			return r.Level
		}
	}
	return 0
}

// IsStaffRole indica si el rol pertenece al back-office.
func IsStaffRole(name string) bool {
	l := RoleLevel(name)
	return l > 0 && l < RoleLevel(RoleCustomer)
}
