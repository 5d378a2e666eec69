package domain

// Column is one stage of a board with the tasks currently in it.
type Column struct {
	Stage string `json:"stage" yaml:"stage"`
	Tasks []Task `json:"tasks" yaml:"tasks"`
}

// GroupByStage orders columns by first appearance of each stage.
func GroupByStage(tasks []Task) []Column {
	columns := make([]Column, 0)
	index := make(map[string]int)

	for _, task := range tasks {
		i, ok := index[task.CurrentStage]
		if !ok {
			i = len(columns)
			index[task.CurrentStage] = i
			columns = append(columns, Column{Stage: task.CurrentStage})
		}
		columns[i].Tasks = append(columns[i].Tasks, task)
	}

	return columns
}

func FindTask(tasks []Task, id TaskID) (Task, bool) {
	for _, task := range tasks {
		if task.ID == id {
			return task, true
		}
	}

	return Task{}, false
}
