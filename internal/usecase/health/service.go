package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the service answers retrieval but an optional component fails.
	Degraded Status = "degraded"
	// Unhealthy indicates the knowledge base cannot be read.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Check names.
const (
	CheckKnowledgeBase = "knowledge_base"
	CheckCache         = "cache"
	CheckChat          = "chat"
)

// Report aggregates health check results.
type Report struct {
	Status         Status
	DocumentsCount int
	Checks         map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	kb       KnowledgeBase
	cache    CachePinger
	chat     ChatChecker
	skipChat bool
}

// New creates a Service. cache is nil when no cache store is configured;
// chat is nil when no chat provider is configured and then reports an error.
func New(kb KnowledgeBase, cache CachePinger, chat ChatChecker) *Service {
	return &Service{kb: kb, cache: cache, chat: chat}
}

// WithoutChat omits the chat check, for embedded use where no chat provider exists.
func (s *Service) WithoutChat() *Service {
	s.skipChat = true
	return s
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	report := Report{Status: Healthy, Checks: checks}

	if err := s.kb.Check(ctx); err != nil {
		checks[CheckKnowledgeBase] = CheckError
	} else {
		checks[CheckKnowledgeBase] = CheckOK
		if files, err := s.kb.List(ctx); err == nil {
			report.DocumentsCount = len(files)
		}
	}

	if s.cache != nil {
		checks[CheckCache] = result(s.cache.Ping(ctx))
	}

	switch {
	case s.skipChat:
	case s.chat != nil:
		checks[CheckChat] = result(s.chat.HealthCheck(ctx))
	default:
		checks[CheckChat] = CheckError
	}

	switch {
	case checks[CheckKnowledgeBase] == CheckError:
		report.Status = Unhealthy
	case checks[CheckCache] == CheckError || checks[CheckChat] == CheckError:
		report.Status = Degraded
	}
	return report
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
