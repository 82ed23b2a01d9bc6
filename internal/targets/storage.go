package targets

// Store is the ordered live set for one round. Iteration order is spawn
// order, which is also hit-scan order.
type Store struct {
	targets []*Target
	nextID  int
}

func NewStore() *Store {
	return &Store{nextID: 1}
}

// Add assigns t the next ID and appends it.
func (s *Store) Add(t *Target) *Target {
	t.ID = s.nextID
	s.nextID++
	s.targets = append(s.targets, t)
	return t
}

func (s *Store) Get(id int) *Target {
	for _, t := range s.targets {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Kill flags a target as hit. It returns false if the target is unknown or
// already hit.
func (s *Store) Kill(id int) bool {
	t := s.Get(id)
	if t == nil || t.Hit {
		return false
	}
	t.Hit = true
	return true
}

// GetList returns the targets that have not been hit.
func (s *Store) GetList() []*Target {
	targetList := make([]*Target, 0, len(s.targets))
	for _, t := range s.targets {
		if !t.Hit {
			targetList = append(targetList, t)
		}
	}
	return targetList
}

// All returns every stored target, hit or not.
func (s *Store) All() []*Target {
	return s.targets
}

// Sweep drops hit targets and returns them.
func (s *Store) Sweep() []*Target {
	var removed []*Target
	kept := s.targets[:0]
	for _, t := range s.targets {
		if t.Hit {
			removed = append(removed, t)
			continue
		}
		kept = append(kept, t)
	}
	for i := len(kept); i < len(s.targets); i++ {
		s.targets[i] = nil
	}
	s.targets = kept
	return removed
}

func (s *Store) Len() int {
	return len(s.targets)
}

func (s *Store) Clear() {
	s.targets = nil
	s.nextID = 1
}
