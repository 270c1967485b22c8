package services

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidAgentType = errors.New("invalid agent type")

const (
	AgentHealth        = "health"
	AgentSafety        = "safety"
	AgentReminder      = "reminder"
	AgentCommunication = "communication"
	AgentResearch      = "research"
	AgentAll           = "all"

	agentEventWindow = time.Hour
)

type agentScript struct {
	message string
	result  string
}

// The agents are placeholders: each run logs a canned completion event.
var agentScripts = map[string]agentScript{
	AgentHealth: {
		message: "Health monitoring completed successfully. Found no critical health concerns in the latest metrics.",
		result:  "Health monitoring completed",
	},
	AgentSafety: {
		message: "Safety check completed. No fall events detected in the last 24 hours.",
		result:  "Safety check completed",
	},
	AgentReminder: {
		message: "Reminder check completed. Found upcoming medication reminders for today.",
		result:  "Reminder check completed",
	},
	AgentCommunication: {
		message: "Communication task completed. Generated daily summary for caregiver.",
		result:  "Communication task completed",
	},
	AgentResearch: {
		message: "Research completed. Found information about hypertension management for elderly patients.",
		result:  "Research completed",
	},
}

var allAgentResults = []string{
	"Health: Health monitoring completed successfully.",
	"Safety: Safety check completed. No incidents detected.",
	"Reminder: Reminder check completed.",
	"Communication: Communication task completed.",
	"Research: Research completed.",
}

type AgentRun struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Result  string      `json:"result,omitempty"`
	Results []string    `json:"results,omitempty"`
	Events  []EventView `json:"events"`
}

type AgentService struct {
	events *EventService
}

func NewAgentService(events *EventService) *AgentService {
	return &AgentService{events: events}
}

func (service *AgentService) Run(agentType string) (AgentRun, error) {
	if agentType == AgentAll {
		if err := service.events.LogEvent("all_agents", "workflow_completed", "Multiple agent workflows completed", ""); err != nil {
			return AgentRun{}, err
		}
		return AgentRun{
			Status:  "success",
			Message: "All agents completed their tasks",
			Results: append([]string(nil), allAgentResults...),
			Events:  service.events.RecentEvents(agentEventWindow, "", "", ""),
		}, nil
	}

	script, ok := agentScripts[agentType]
	if !ok {
		return AgentRun{}, ErrInvalidAgentType
	}

	source := agentType + "_agent"
	if err := service.events.LogEvent(source, "workflow_completed", script.message, ""); err != nil {
		return AgentRun{}, err
	}
	return AgentRun{
		Status:  "success",
		Message: titleCase(agentType) + " agent completed its task",
		Result:  script.result,
		Events:  service.events.RecentEvents(agentEventWindow, source, "", ""),
	}, nil
}

func titleCase(value string) string {
	if value == "" {
		return value
	}
	return strings.ToUpper(value[:1]) + value[1:]
}
