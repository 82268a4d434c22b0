package auth

import "servis-backend/internal/models"

// Predicate bir oturumun işlemi yapıp yapamayacağına karar verir.
type Predicate func(s *Session) bool

var (
	adminRoles    = []models.UserRole{models.RoleAdmin}
	managerRoles  = []models.UserRole{models.RoleAdmin, models.RoleManager}
	employeeRoles = []models.UserRole{models.RoleAdmin, models.RoleManager, models.RoleEmployee}
	userRoles     = []models.UserRole{models.RoleAdmin, models.RoleManager, models.RoleEmployee, models.RoleCustomer}
)

// Access rol kümelerinden yetki kararları üretir.
//
// Varsayılan modda rolü kümede olmayan kullanıcı, engellenmemişse yine izin alır.
// Strict modda yalnızca kümedeki ve engellenmemiş roller geçer.
type Access struct {
	Strict bool
}

func (a Access) allow(roles []models.UserRole) Predicate {
	return func(s *Session) bool {
		if s == nil {
			return false
		}
		for _, r := range roles {
			if s.Role == r {
				if a.Strict {
					return !s.IsBlocked
				}
				return true
			}
		}
		if a.Strict {
			return false
		}
		return !s.IsBlocked
	}
}

func (a Access) IsAdmin() Predicate    { return a.allow(adminRoles) }
func (a Access) IsManager() Predicate  { return a.allow(managerRoles) }
func (a Access) IsEmployee() Predicate { return a.allow(employeeRoles) }
func (a Access) IsUser() Predicate     { return a.allow(userRoles) }

type Operation string

const (
	OpCreate Operation = "create"
	OpQuery  Operation = "query"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

type Entity string

const (
	EntityUser                Entity = "user"
	EntityNote                Entity = "note"
	EntityFile                Entity = "file"
	EntityWorkOrder           Entity = "work_order"
	EntityApplication         Entity = "application"
	EntityApplicationType     Entity = "application_type"
	EntityApplicationLocation Entity = "application_location"
	EntityProduct             Entity = "product"
	EntityProductBrand        Entity = "product_brand"
	EntityStorage             Entity = "storage"
	EntityDocumentType        Entity = "document_type"
	EntityStockMovement       Entity = "stock_movement"
	EntityCar                 Entity = "car"
	EntityCarModel            Entity = "car_model"
	EntityCarBrand            Entity = "car_brand"
	EntityPaymentPlan         Entity = "payment_plan"
	EntityPayment             Entity = "payment"
	EntityNotification        Entity = "notification"
	EntityAuditLog            Entity = "audit_log"
)

type level int

const (
	levelUser level = iota
	levelEmployee
	levelManager
	levelAdmin
)

// rule: create, query, update, delete
type rule [4]level

var catalogRule = rule{levelAdmin, levelEmployee, levelAdmin, levelAdmin}

var policyTable = map[Entity]rule{
	EntityUser:                {levelAdmin, levelUser, levelAdmin, levelAdmin},
	EntityNote:                {levelEmployee, levelEmployee, levelManager, levelAdmin},
	EntityFile:                {levelEmployee, levelEmployee, levelAdmin, levelAdmin},
	EntityWorkOrder:           {levelEmployee, levelEmployee, levelEmployee, levelAdmin},
	EntityApplication:         {levelEmployee, levelEmployee, levelEmployee, levelEmployee},
	EntityApplicationType:     catalogRule,
	EntityApplicationLocation: catalogRule,
	EntityProduct:             catalogRule,
	EntityProductBrand:        catalogRule,
	EntityStorage:             catalogRule,
	EntityDocumentType:        catalogRule,
	EntityCarModel:            catalogRule,
	EntityCarBrand:            catalogRule,
	EntityStockMovement:       {levelEmployee, levelEmployee, levelAdmin, levelAdmin},
	EntityCar:                 {levelEmployee, levelEmployee, levelEmployee, levelAdmin},
	EntityPaymentPlan:         {levelEmployee, levelEmployee, levelAdmin, levelAdmin},
	EntityPayment:             {levelEmployee, levelEmployee, levelManager, levelManager},
	EntityNotification:        {levelAdmin, levelEmployee, levelAdmin, levelAdmin},
	EntityAuditLog:            {levelAdmin, levelAdmin, levelAdmin, levelAdmin},
}

func opIndex(op Operation) int {
	switch op {
	case OpCreate:
		return 0
	case OpQuery:
		return 1
	case OpUpdate:
		return 2
	default:
		return 3
	}
}

func (a Access) predicate(l level) Predicate {
	switch l {
	case levelAdmin:
		return a.IsAdmin()
	case levelManager:
		return a.IsManager()
	case levelEmployee:
		return a.IsEmployee()
	default:
		return a.IsUser()
	}
}

// Policy entity ve işlem için ilgili yetki fonksiyonunu döner.
// Tabloda olmayan entity için her zaman reddeder.
func (a Access) Policy(entity Entity, op Operation) Predicate {
	r, ok := policyTable[entity]
	if !ok {
		return func(*Session) bool { return false }
	}
	return a.predicate(r[opIndex(op)])
}

// Can kısa yol: Policy(entity, op)(s)
func (a Access) Can(s *Session, entity Entity, op Operation) bool {
	return a.Policy(entity, op)(s)
}

// Alan bazlı kurallar
func (a Access) CanChangeUserRole(s *Session) bool        { return a.IsAdmin()(s) }
func (a Access) CanChangeWorkOrderStatus(s *Session) bool { return a.IsManager()(s) }
