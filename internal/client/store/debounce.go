package store

import (
	"sync"
	"time"
)

// DefaultSearchDebounce — задержка после последнего нажатия клавиши
// перед отправкой поискового запроса.
const DefaultSearchDebounce = 300 * time.Millisecond

// Debouncer откладывает выполнение функции до паузы во вводе.
// Новый вызов Trigger отменяет еще не сработавший таймер, но НЕ
// отменяет уже отправленный запрос: если ответы приходят не в порядке
// отправки, видимым остается последний разрешившийся.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

// NewDebouncer создает Debouncer с заданной задержкой.
// Неположительная задержка заменяется на DefaultSearchDebounce.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultSearchDebounce
	}
	return &Debouncer{delay: delay}
}

// Trigger планирует вызов fn после паузы, отменяя предыдущий ожидающий вызов.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop отменяет ожидающий вызов, если он есть.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
