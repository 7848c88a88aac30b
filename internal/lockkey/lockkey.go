// domus-crm/internal/lockkey/lockkey.go
package lockkey

import "sync"

// Map выдает мьютекс по строковому ключу. Используется движком зачисления как
// внутрипроцессная часть блокировки критической секции по паре (объект, пайщик);
// на уровне БД ее дублирует SELECT ... FOR UPDATE по строке плана.
//
// Мьютексы не удаляются: число ключей ограничено числом пар объект-пайщик,
// живущих в одном процессе.
type Map struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New() *Map {
	return &Map{locks: make(map[string]*sync.Mutex)}
}

// Lock захватывает мьютекс ключа и возвращает функцию освобождения.
func (m *Map) Lock(key string) func() {
	m.mu.Lock()
	l, ok := m.locks[key]
	if !ok {
		l = &sync.Mutex{}
		m.locks[key] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}
