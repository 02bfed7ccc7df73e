package log

import (
	"cloud.google.com/go/logging"
	"context"
	"fmt"
	"google.golang.org/api/option"
	"time"
	"tldr/pkg/config"
)

func InitializeGCPLogger(ctx context.Context, cfg *config.Config) (Log, error) {
	if logger != nil {
		return logger, nil
	}

	opts := make([]option.ClientOption, 0)
	if len(cfg.GoogleCloud.ServiceAccountFilename) > 0 {
		opts = append(opts, option.WithCredentialsFile(cfg.GoogleCloud.ServiceAccountFilename))
	}

	client, err := logging.NewClient(ctx, cfg.GoogleCloud.ProjectID, opts...)
	if err != nil {
		return nil, err
	}

	if client == nil {
		return nil, fmt.Errorf("error creating logging client")
	}

	logger = &gcpLogger{
		client: client,
		logger: client.Logger(cfg.Logging.LogID),
	}

	return logger, nil
}

type gcpLogger struct {
	client *logging.Client
	logger *logging.Logger
}

func (gl *gcpLogger) Close() error {
	if err := gl.logger.Flush(); err != nil {
		fmt.Printf("%s [E] error flushing logs, %s\n", timestamp(), err)
	}
	return gl.client.Close()
}

func (gl *gcpLogger) Log(l Labeler, message string, severity Severity) {
	var labels map[string]string
	if l != nil {
		labels = l.Labels()
	}
	gl.logger.Log(logging.Entry{Payload: message, Severity: logging.Severity(severity), Labels: labels})
	fmt.Printf("%s [%s] %s\n", timestamp(), severityMarker(severity), message)
}

func (gl *gcpLogger) Rawf(severity Severity, format string, args ...any) {
	gl.Log(nil, fmt.Sprintf(format, args...), severity)
}

func (gl *gcpLogger) Default(l Labeler, message any) { gl.Defaultf(l, "%s", message) }
func (gl *gcpLogger) Defaultf(l Labeler, format string, args ...any) {
	gl.Log(l, fmt.Sprintf(format, args...), Default)
}

func (gl *gcpLogger) Debug(l Labeler, message any) { gl.Debugf(l, "%s", message) }
func (gl *gcpLogger) Debugf(l Labeler, format string, args ...any) {
	gl.Log(l, fmt.Sprintf(format, args...), Debug)
}

func (gl *gcpLogger) Info(l Labeler, message any) { gl.Infof(l, "%s", message) }
func (gl *gcpLogger) Infof(l Labeler, format string, args ...any) {
	gl.Log(l, fmt.Sprintf(format, args...), Info)
}

func (gl *gcpLogger) Notice(l Labeler, message any) { gl.Noticef(l, "%s", message) }
func (gl *gcpLogger) Noticef(l Labeler, format string, args ...any) {
	gl.Log(l, fmt.Sprintf(format, args...), Notice)
}

func (gl *gcpLogger) Warning(l Labeler, message any) { gl.Warningf(l, "%s", message) }
func (gl *gcpLogger) Warningf(l Labeler, format string, args ...any) {
	gl.Log(l, fmt.Sprintf(format, args...), Warning)
}

func (gl *gcpLogger) Error(l Labeler, message any) { gl.Errorf(l, "%s", message) }
func (gl *gcpLogger) Errorf(l Labeler, format string, args ...any) {
	gl.Log(l, fmt.Sprintf(format, args...), Error)
}

func (gl *gcpLogger) Critical(l Labeler, message any) { gl.Criticalf(l, "%s", message) }
func (gl *gcpLogger) Criticalf(l Labeler, format string, args ...any) {
	gl.Log(l, fmt.Sprintf(format, args...), Critical)
}

func (gl *gcpLogger) Alert(l Labeler, message any) { gl.Alertf(l, "%s", message) }
func (gl *gcpLogger) Alertf(l Labeler, format string, args ...any) {
	gl.Log(l, fmt.Sprintf(format, args...), Alert)
}

func (gl *gcpLogger) Emergency(l Labeler, message any) { gl.Emergencyf(l, "%s", message) }
func (gl *gcpLogger) Emergencyf(l Labeler, format string, args ...any) {
	gl.Log(l, fmt.Sprintf(format, args...), Emergency)
}

func timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05.000")
}
