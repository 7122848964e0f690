// Package navigation models the sidebar state as one small state machine
// instead of the pile of parallel booleans the legacy client carried: at
// most one submenu is open, the user and notification menus exclude each
// other, and the open submenu is derived from the current page.
package navigation

import "sync"

type Page string

const (
	PageDashboard      Page = "dashboard"
	PageReservations   Page = "reservations"
	PageCustomers      Page = "customers"
	PageSuppliers      Page = "suppliers"
	PageHotelContracts Page = "hotel-contracts"
	PageBags           Page = "bags"
	PageTransfers      Page = "transfers"
	PageItineraries    Page = "itineraries"
	PageGuideSchedules Page = "guide-schedules"
	PageAccounting     Page = "accounting"
	PageStatistics     Page = "statistics"
	PageUsers          Page = "users"
	PageRoles          Page = "roles"
	PageSettings       Page = "settings"
)

type Submenu string

const (
	SubmenuNone           Submenu = ""
	SubmenuOperations     Submenu = "operations"
	SubmenuSales          Submenu = "sales"
	SubmenuContracting    Submenu = "contracting"
	SubmenuLogistics      Submenu = "logistics"
	SubmenuFinance        Submenu = "finance"
	SubmenuReporting      Submenu = "reporting"
	SubmenuAdministration Submenu = "administration"
)

// SubmenuFor derives which submenu belongs to a page as a pure function,
// so the two can never drift apart.
func SubmenuFor(p Page) Submenu {
	switch p {
	case PageReservations, PageItineraries, PageGuideSchedules:
		return SubmenuOperations
	case PageCustomers:
		return SubmenuSales
	case PageSuppliers, PageHotelContracts:
		return SubmenuContracting
	case PageBags, PageTransfers:
		return SubmenuLogistics
	case PageAccounting:
		return SubmenuFinance
	case PageStatistics:
		return SubmenuReporting
	case PageUsers, PageRoles:
		return SubmenuAdministration
	default:
		return SubmenuNone
	}
}

type Controller struct {
	mu            sync.RWMutex
	page          Page
	openSubmenu   Submenu
	userMenuOpen  bool
	notifMenuOpen bool
}

func NewController() *Controller {
	return &Controller{page: PageDashboard}
}

// Toggle closes the submenu if it is the open one, otherwise opens it and
// closes whatever else was open, as one atomic transition.
func (c *Controller) Toggle(s Submenu) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.openSubmenu == s {
		c.openSubmenu = SubmenuNone
		return
	}
	c.openSubmenu = s
}

// SetCurrentPage switches the page and derives the open submenu from it.
func (c *Controller) SetCurrentPage(p Page) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page = p
	c.openSubmenu = SubmenuFor(p)
}

func (c *Controller) ToggleUserMenu() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userMenuOpen = !c.userMenuOpen
	if c.userMenuOpen {
		c.notifMenuOpen = false
	}
}

func (c *Controller) ToggleNotificationsMenu() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifMenuOpen = !c.notifMenuOpen
	if c.notifMenuOpen {
		c.userMenuOpen = false
	}
}

func (c *Controller) CloseMenus() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userMenuOpen = false
	c.notifMenuOpen = false
}

func (c *Controller) CurrentPage() Page {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.page
}

func (c *Controller) OpenSubmenu() Submenu {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.openSubmenu
}

func (c *Controller) UserMenuOpen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userMenuOpen
}

func (c *Controller) NotificationsMenuOpen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.notifMenuOpen
}
