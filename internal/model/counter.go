package model

// CounterTaskID names the counter row backing task id allocation.
const CounterTaskID = "taskId"

// Counter is a named monotonic sequence. Its atomic increment is the
// sole source of new task ids, shared by the create and import paths.
type Counter struct {
	Name  string `gorm:"primaryKey;size:50" json:"name"`
	Value uint64 `gorm:"not null;default:0" json:"value"`
}

func (Counter) TableName() string {
	return "counters"
}
