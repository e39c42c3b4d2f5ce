package tasklist

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Marshal encodes tasks as a JSON array. A nil list encodes as [].
func Marshal(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	return json.Marshal(tasks)
}

// Unmarshal decodes a JSON array of tasks.
// Empty or blank input is an empty list; anything unparsable is ErrCorrupt.
func Unmarshal(data []byte) ([]Task, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []Task{}, nil
	}
	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if tasks == nil {
		// literal null
		tasks = []Task{}
	}
	return tasks, nil
}
