package order

// Manager holds orders in strict insertion order, the cross-kind
// ordering canonicalized per spec 9 Open Question 3: FIFO across all
// kinds, exits-before-entries being a property of when the broker
// submits them (spec 4.9's bar loop), not of the manager itself.
type Manager struct {
	orders []*Order
}

// NewManager returns an empty order manager.
func NewManager() *Manager { return &Manager{} }

// Submit appends o to the pending queue.
func (m *Manager) Submit(o *Order) { m.orders = append(m.orders, o) }

// Pending returns every order still in the pending state, in submission
// order.
func (m *Manager) Pending() []*Order {
	out := make([]*Order, 0, len(m.orders))
	for _, o := range m.orders {
		if o.State == StatePending {
			out = append(out, o)
		}
	}
	return out
}

// All returns every order ever submitted, terminal or not.
func (m *Manager) All() []*Order { return m.orders }
