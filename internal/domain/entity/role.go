package entity

// Permisos por recurso:acción. Tabla estática; el middleware RBAC consulta
// rolePermissions sin tocar la base de datos.
const (
	PermProductsCreate   = "products:create"
	PermProductsRead     = "products:read"
	PermProductsUpdate   = "products:update"
	PermProductsDelete   = "products:delete"
	PermInventoryCreate  = "inventory:create"
	PermInventoryRead    = "inventory:read"
	PermInventoryUpdate  = "inventory:update"
	PermInventoryDelete  = "inventory:delete"
	PermSalesCreate      = "sales:create"
	PermSalesRead        = "sales:read"
	PermSalesUpdate      = "sales:update"
	PermSalesDelete      = "sales:delete"
	PermAnalyticsRead    = "analytics:read"
	PermAlertsRead       = "alerts:read"
	PermAlertsResolve    = "alerts:resolve"
	PermUsersCreate      = "users:create"
	PermUsersRead        = "users:read"
	PermUsersUpdate      = "users:update"
	PermUsersDelete      = "users:delete"
	PermCategoriesCreate = "categories:create"
	PermCategoriesRead   = "categories:read"
	PermCategoriesUpdate = "categories:update"
	PermCategoriesDelete = "categories:delete"
	PermSuppliersCreate  = "suppliers:create"
	PermSuppliersRead    = "suppliers:read"
	PermSuppliersUpdate  = "suppliers:update"
	PermSuppliersDelete  = "suppliers:delete"
)

var readOnlyPerms = []string{
	PermProductsRead, PermInventoryRead, PermSalesRead,
	PermAnalyticsRead, PermAlertsRead, PermCategoriesRead, PermSuppliersRead,
}

var rolePermissions = map[string][]string{
	RoleSuperadmin: {
		PermProductsCreate, PermProductsRead, PermProductsUpdate, PermProductsDelete,
		PermInventoryCreate, PermInventoryRead, PermInventoryUpdate, PermInventoryDelete,
		PermSalesCreate, PermSalesRead, PermSalesUpdate, PermSalesDelete,
		PermAnalyticsRead, PermAlertsRead, PermAlertsResolve,
		PermUsersCreate, PermUsersRead, PermUsersUpdate, PermUsersDelete,
		PermCategoriesCreate, PermCategoriesRead, PermCategoriesUpdate, PermCategoriesDelete,
		PermSuppliersCreate, PermSuppliersRead, PermSuppliersUpdate, PermSuppliersDelete,
	},
	RoleAdmin: {
		PermProductsCreate, PermProductsRead, PermProductsUpdate, PermProductsDelete,
		PermInventoryCreate, PermInventoryRead, PermInventoryUpdate, PermInventoryDelete,
		PermSalesCreate, PermSalesRead, PermSalesUpdate, PermSalesDelete,
		PermAnalyticsRead, PermAlertsRead, PermAlertsResolve,
		PermUsersCreate, PermUsersRead, PermUsersUpdate,
		PermCategoriesCreate, PermCategoriesRead, PermCategoriesUpdate, PermCategoriesDelete,
		PermSuppliersCreate, PermSuppliersRead, PermSuppliersUpdate, PermSuppliersDelete,
	},
	RoleManager: {
		PermProductsCreate, PermProductsRead, PermProductsUpdate,
		PermInventoryCreate, PermInventoryRead, PermInventoryUpdate,
		PermSalesCreate, PermSalesRead, PermSalesUpdate,
		PermAnalyticsRead, PermAlertsRead, PermAlertsResolve,
		PermUsersRead,
		PermCategoriesCreate, PermCategoriesRead, PermCategoriesUpdate,
		PermSuppliersCreate, PermSuppliersRead, PermSuppliersUpdate,
	},
	RoleStaff: {
		PermProductsRead,
		PermInventoryCreate, PermInventoryRead,
		PermSalesCreate, PermSalesRead,
		PermAlertsRead,
		PermCategoriesRead, PermSuppliersRead,
	},
	RoleViewer: readOnlyPerms,
}

// ValidRole responde si el nombre de rol existe en la tabla de permisos.
func ValidRole(role string) bool {
	_, ok := rolePermissions[role]
	return ok
}

// HasPermission responde si el rol tiene el permiso dado.
func HasPermission(role, permission string) bool {
	for _, p := range rolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
