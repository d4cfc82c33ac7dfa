package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// sensitiveFields contains substrings of JSON fields that should be redacted
var sensitiveFields = []string{
	"password",
	"token",
	"secret",
	"authorization",
	"credential",
	"session",
	"cookie",
}

// sensitiveHeaderPattern matches headers whose values must never be logged
var sensitiveHeaderPattern = regexp.MustCompile(`(?i)authorization|api[-_]?key|token|secret|password|cookie|session`)

// responseWriter captures the response body alongside writing it out
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// LoggerConfig holds configuration for the logger middleware
type LoggerConfig struct {
	Format string // "json" or "pretty"
	Level  string // "debug", "info", "warn", "error"
}

// LogEntry represents a structured request log entry
type LogEntry struct {
	Timestamp    string              `json:"timestamp"`
	Method       string              `json:"method"`
	Path         string              `json:"path"`
	StatusCode   int                 `json:"status_code"`
	Latency      string              `json:"latency"`
	ClientIP     string              `json:"client_ip"`
	UserAgent    string              `json:"user_agent"`
	Headers      map[string]string   `json:"headers"`
	QueryParams  map[string][]string `json:"query_params,omitempty"`
	RequestBody  interface{}         `json:"request_body,omitempty"`
	ResponseBody interface{}         `json:"response_body,omitempty"`
	Error        string              `json:"error,omitempty"`
}

// RequestResponseLogger logs every request and response with sensitive
// headers and body fields redacted.
func RequestResponseLogger(config LoggerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var requestBody []byte
		if c.Request.Body != nil {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		writer := &responseWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer

		c.Next()

		entry := buildLogEntry(c, requestBody, writer.body.Bytes(), time.Since(start))
		if config.Format == "pretty" {
			printPrettyLog(entry)
		} else {
			printJSONLog(entry)
		}
	}
}

func buildLogEntry(c *gin.Context, requestBody, responseBody []byte, latency time.Duration) LogEntry {
	entry := LogEntry{
		Timestamp:   time.Now().Format(time.RFC3339),
		Method:      c.Request.Method,
		Path:        c.Request.URL.Path,
		StatusCode:  c.Writer.Status(),
		Latency:     latency.String(),
		ClientIP:    c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
		Headers:     redactHeaders(c.Request.Header),
		QueryParams: c.Request.URL.Query(),
	}

	if len(requestBody) > 0 {
		entry.RequestBody = parseAndRedactBody(requestBody)
	}
	if len(responseBody) > 0 {
		entry.ResponseBody = parseAndRedactBody(responseBody)
	}
	if len(c.Errors) > 0 {
		entry.Error = c.Errors.String()
	}

	return entry
}

func redactHeaders(headers map[string][]string) map[string]string {
	redacted := make(map[string]string)
	for key, values := range headers {
		if sensitiveHeaderPattern.MatchString(key) {
			redacted[key] = "[REDACTED]"
		} else {
			redacted[key] = strings.Join(values, ", ")
		}
	}
	return redacted
}

// parseAndRedactBody parses a JSON body and redacts sensitive fields.
// Non-JSON bodies are logged as truncated strings.
func parseAndRedactBody(body []byte) interface{} {
	var jsonBody interface{}
	if err := json.Unmarshal(body, &jsonBody); err != nil {
		bodyStr := string(body)
		if len(bodyStr) > 1000 {
			bodyStr = bodyStr[:1000] + "... (truncated)"
		}
		return bodyStr
	}

	redactSensitiveFields(jsonBody)
	return jsonBody
}

func redactSensitiveFields(data interface{}) {
	switch v := data.(type) {
	case map[string]interface{}:
		for key, value := range v {
			if isSensitiveField(key) {
				v[key] = "[REDACTED]"
			} else {
				redactSensitiveFields(value)
			}
		}
	case []interface{}:
		for _, item := range v {
			redactSensitiveFields(item)
		}
	}
}

func isSensitiveField(fieldName string) bool {
	lowerField := strings.ToLower(fieldName)
	for _, sensitive := range sensitiveFields {
		if strings.Contains(lowerField, sensitive) {
			return true
		}
	}
	return false
}

func printJSONLog(entry LogEntry) {
	jsonBytes, err := json.Marshal(entry)
	if err != nil {
		fmt.Printf(`{"error": "failed to marshal log entry: %v"}%s`, err, "\n")
		return
	}
	fmt.Println(string(jsonBytes))
}

func printPrettyLog(entry LogEntry) {
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Printf("%s | %s %s\n", entry.Timestamp, entry.Method, entry.Path)
	fmt.Printf("status=%d latency=%s ip=%s\n", entry.StatusCode, entry.Latency, entry.ClientIP)

	if entry.RequestBody != nil {
		fmt.Println("request body:")
		prettyPrintJSON(entry.RequestBody)
	}
	if entry.ResponseBody != nil {
		fmt.Println("response body:")
		prettyPrintJSON(entry.ResponseBody)
	}
	if entry.Error != "" {
		fmt.Printf("error: %s\n", entry.Error)
	}

	fmt.Println(strings.Repeat("=", 80))
}

func prettyPrintJSON(data interface{}) {
	jsonBytes, err := json.MarshalIndent(data, "  ", "  ")
	if err != nil {
		fmt.Printf("  %v\n", data)
		return
	}
	fmt.Printf("  %s\n", string(jsonBytes))
}
