package business

// WateringTask is one entry of the business watering checklist.
type WateringTask struct {
	PlantID   string `json:"plantId"`
	PlantName string `json:"plantName"`
	DueDate   string `json:"dueDate"`
	Overdue   bool   `json:"overdue"`
}

// adaptWateringChecklist reshapes the watering checklist payload.
func adaptWateringChecklist(payload map[string]interface{}) []WateringTask {
	rawTasks := objectItems(listField(payload, "checklist", "tasks", "plants"))

	tasks := make([]WateringTask, 0, len(rawTasks))
	for _, raw := range rawTasks {
		tasks = append(tasks, WateringTask{
			PlantID:   stringField(raw, "plantId", "id"),
			PlantName: stringField(raw, "plantName", "name"),
			DueDate:   stringField(raw, "dueDate", "nextWatering"),
			Overdue:   boolField(raw, "overdue", "isOverdue"),
		})
	}
	return tasks
}
