package automaton

const (
	DEFAULT_EXPECTED_ELEMENTS = 4
	DEFAULT_LOAD_FACTOR       = 0.75
	MIN_HASH_ARRAY_LENGTH     = 4
)

// IntIntHashMap is an open-addressing int→int map with linear probing and
// φ-mixed hashing. Minimization keys its state → equivalence-class
// mappings on it, where the refinement loop performs one lookup per state
// and alphabet character per round. A zero slot marks an empty bucket, so
// the zero key lives out-of-band in the extra slot past the mask.
type IntIntHashMap struct {
	keys   []int32
	values []int32

	assigned    int
	mask        uint32 // Mask for slot scans in keys.
	resizeAt    int    // Rehash when assigned hits this value.
	hasEmptyKey bool   // Special treatment for the "empty slot" key marker.
	loadFactor  float64
}

func NewIntIntHashMap(expectedElements int) *IntIntHashMap {
	if expectedElements < DEFAULT_EXPECTED_ELEMENTS {
		expectedElements = DEFAULT_EXPECTED_ELEMENTS
	}
	m := &IntIntHashMap{loadFactor: DEFAULT_LOAD_FACTOR}
	m.allocate(expectedElements)
	return m
}

func (m *IntIntHashMap) allocate(expectedElements int) {
	arrayLen := MIN_HASH_ARRAY_LENGTH
	for float64(arrayLen)*m.loadFactor < float64(expectedElements) {
		arrayLen <<= 1
	}
	m.keys = make([]int32, arrayLen+1)
	m.values = make([]int32, arrayLen+1)
	m.mask = uint32(arrayLen - 1)
	m.resizeAt = int(float64(arrayLen) * m.loadFactor)
}

// Put Inserts or updates the value for key.
func (m *IntIntHashMap) Put(key, value int32) {
	if key == 0 {
		m.hasEmptyKey = true
		m.values[m.mask+1] = value
		return
	}

	slot := uint32(m.hashKey(key)) & m.mask
	for m.keys[slot] != 0 {
		if m.keys[slot] == key {
			m.values[slot] = value
			return
		}
		slot = (slot + 1) & m.mask
	}

	if m.assigned >= m.resizeAt {
		m.rehash()
		slot = uint32(m.hashKey(key)) & m.mask
		for m.keys[slot] != 0 {
			slot = (slot + 1) & m.mask
		}
	}

	m.keys[slot] = key
	m.values[slot] = value
	m.assigned++
}

// Get Returns the value stored for key.
func (m *IntIntHashMap) Get(key int32) (int32, bool) {
	if key == 0 {
		if m.hasEmptyKey {
			return m.values[m.mask+1], true
		}
		return 0, false
	}

	slot := uint32(m.hashKey(key)) & m.mask
	for m.keys[slot] != 0 {
		if m.keys[slot] == key {
			return m.values[slot], true
		}
		slot = (slot + 1) & m.mask
	}
	return 0, false
}

// Size Returns the number of stored entries.
func (m *IntIntHashMap) Size() int {
	if m.hasEmptyKey {
		return m.assigned + 1
	}
	return m.assigned
}

func (m *IntIntHashMap) rehash() {
	oldKeys, oldValues := m.keys, m.values
	oldMask := m.mask
	hadEmptyKey := m.hasEmptyKey
	emptyValue := m.values[m.mask+1]

	m.allocate((int(m.mask) + 1) << 1)
	m.assigned = 0
	m.hasEmptyKey = false

	for i := uint32(0); i <= oldMask; i++ {
		if oldKeys[i] != 0 {
			m.Put(oldKeys[i], oldValues[i])
		}
	}
	if hadEmptyKey {
		m.Put(0, emptyValue)
	}
}

func (m *IntIntHashMap) hashKey(key int32) int32 {
	return mixPhi(key)
}
