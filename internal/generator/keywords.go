// internal/generator/keywords.go
package generator

import "strings"

// techKeywords marks a profile line as a technical highlight.
var techKeywords = []string{
	"python", "java", "c++", "c#", "javascript", "typescript", "go", "ruby", "scala", "swift",
	"sql", "nosql", "mongodb", "postgresql", "mysql", "sqlite", "redis", "cassandra",
	"hadoop", "spark", "hive", "airflow", "kafka", "etl", "data pipeline",
	"tensorflow", "keras", "pytorch", "scikit-learn", "xgboost", "lightgbm", "random forest", "svm",
	"lstm", "cnn", "rnn", "transformer", "bert", "nlp", "computer vision", "deeplearning",
	"docker", "kubernetes", "aws", "azure", "gcp", "jenkins", "ci/cd", "terraform", "ansible",
	"react", "angular", "vue", "django", "flask", "spring", "node.js", "express", "rest api",
	"excel", "tableau", "power bi", "matplotlib", "seaborn", "plotly",
	"pytest", "junit", "selenium", "prometheus", "grafana",
	"android", "ios", "react native", "flutter", "embedded c", "rtos",
	"api development", "microservices", "oop", "functional programming", "agile", "scrum",
	"tdd", "domain-driven design", "architecture", "serverless", "graphql", "websocket",
}

// nonTechKeywords disqualifies a line even when a tech keyword matches, so
// "managed the Kafka migration project team" style lines stay out.
var nonTechKeywords = []string{
	"communication", "team", "leadership", "management", "project management",
	"stakeholder", "presentation", "mentoring", "training", "event", "festival",
	"collaboration", "planning", "strategy", "operations", "logistics",
	"customer service", "sales", "marketing", "finance", "hr", "recruitment",
	"supervised", "coordinated", "organized",
}

// ExtractHighlights pulls up to max technical lines out of a free-text
// profile. A line qualifies when it mentions a technical keyword and no
// non-technical one.
func ExtractHighlights(profile string, max int) []string {
	var highlights []string
	for _, line := range strings.Split(profile, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "•·-* "))
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if !containsAny(lower, techKeywords) || containsAny(lower, nonTechKeywords) {
			continue
		}
		highlights = append(highlights, line)
		if len(highlights) == max {
			break
		}
	}
	return highlights
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
