package events

import (
	"encoding/json"
	"fmt"
)

// SetSuggestionData sets the Data field with SuggestionData in a type-safe way.
func (e *HealthEvent) SetSuggestionData(data SuggestionData) error {
	dataMap, err := structToMap(data)
	if err != nil {
		return fmt.Errorf("failed to convert SuggestionData: %w", err)
	}
	e.Data = dataMap
	return nil
}

// GetSuggestionData retrieves SuggestionData from the Data field.
func (e *HealthEvent) GetSuggestionData() (*SuggestionData, error) {
	var data SuggestionData
	if err := mapToStruct(e.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse SuggestionData: %w", err)
	}
	return &data, nil
}

// SetRemediationData sets the Data field with RemediationData in a type-safe way.
func (e *HealthEvent) SetRemediationData(data RemediationData) error {
	dataMap, err := structToMap(data)
	if err != nil {
		return fmt.Errorf("failed to convert RemediationData: %w", err)
	}
	e.Data = dataMap
	return nil
}

// GetRemediationData retrieves RemediationData from the Data field.
func (e *HealthEvent) GetRemediationData() (*RemediationData, error) {
	var data RemediationData
	if err := mapToStruct(e.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse RemediationData: %w", err)
	}
	return &data, nil
}

// SetCoverageData sets the Data field with CoverageData in a type-safe way.
func (e *HealthEvent) SetCoverageData(data CoverageData) error {
	dataMap, err := structToMap(data)
	if err != nil {
		return fmt.Errorf("failed to convert CoverageData: %w", err)
	}
	e.Data = dataMap
	return nil
}

// GetCoverageData retrieves CoverageData from the Data field.
func (e *HealthEvent) GetCoverageData() (*CoverageData, error) {
	var data CoverageData
	if err := mapToStruct(e.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse CoverageData: %w", err)
	}
	return &data, nil
}

// structToMap converts a struct to map[string]interface{} using JSON marshaling.
func structToMap(data interface{}) (map[string]interface{}, error) {
	bytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var result map[string]interface{}
	if err := json.Unmarshal(bytes, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// mapToStruct converts a map[string]interface{} to a struct using JSON unmarshaling.
func mapToStruct(dataMap map[string]interface{}, target interface{}) error {
	bytes, err := json.Marshal(dataMap)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, target)
}
