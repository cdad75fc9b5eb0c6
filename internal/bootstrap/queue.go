package bootstrap

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/toolsascode/revmig/internal/config"
	"github.com/toolsascode/revmig/internal/logger"
	"github.com/toolsascode/revmig/internal/queue"
	"github.com/toolsascode/revmig/internal/queue/kafka"
	"github.com/toolsascode/revmig/internal/queue/pulsar"
)

// DefaultConsumerGroup is used when no Kafka group or Pulsar subscription is configured
const DefaultConsumerGroup = "revmig-workers"

// NewQueue opens the job queue selected by REVMIG_QUEUE_TYPE
func NewQueue(cfg *config.Config) (queue.Queue, error) {
	if err := ValidateQueue(cfg); err != nil {
		return nil, err
	}
	qc := cfg.Queue

	switch strings.ToLower(qc.Type) {
	case "", "kafka":
		group := qc.KafkaGroupID
		if group == "" {
			group = DefaultConsumerGroup
		}
		brokers := make([]string, 0, len(qc.KafkaBrokers))
		for _, broker := range qc.KafkaBrokers {
			brokers = append(brokers, strings.TrimSpace(broker))
		}
		logger.Infof("Using Kafka queue: topic %s, group %s, brokers %s", qc.KafkaTopic, group, strings.Join(brokers, ","))
		return kafka.New(kafka.Config{Brokers: brokers, Topic: qc.KafkaTopic, GroupID: group}), nil

	default:
		subscription := qc.PulsarSubscription
		if subscription == "" {
			subscription = DefaultConsumerGroup
		}
		logger.Infof("Using Pulsar queue: topic %s, subscription %s, service %s", qc.PulsarTopic, subscription, qc.PulsarURL)
		return pulsar.New(pulsar.Config{URL: qc.PulsarURL, Topic: qc.PulsarTopic, Subscription: subscription})
	}
}

// ValidateQueue checks the queue section of the configuration. Errors name
// the environment variable to fix.
func ValidateQueue(cfg *config.Config) error {
	qc := cfg.Queue

	switch strings.ToLower(qc.Type) {
	case "", "kafka":
		if len(qc.KafkaBrokers) == 0 {
			return fmt.Errorf("REVMIG_QUEUE_KAFKA_BROKERS: at least one broker is required")
		}
		for _, broker := range qc.KafkaBrokers {
			if _, port, err := net.SplitHostPort(strings.TrimSpace(broker)); err != nil || port == "" {
				return fmt.Errorf("REVMIG_QUEUE_KAFKA_BROKERS: broker %q is not host:port", broker)
			}
		}
		return validateTopic("REVMIG_QUEUE_KAFKA_TOPIC", qc.KafkaTopic)

	case "pulsar":
		u, err := url.Parse(qc.PulsarURL)
		if qc.PulsarURL == "" || err != nil {
			return fmt.Errorf("REVMIG_QUEUE_PULSAR_URL: %q is not a Pulsar service URL", qc.PulsarURL)
		}
		if u.Scheme != "pulsar" && u.Scheme != "pulsar+ssl" {
			return fmt.Errorf("REVMIG_QUEUE_PULSAR_URL: scheme %q is not supported (use pulsar:// or pulsar+ssl://)", u.Scheme)
		}
		return validateTopic("REVMIG_QUEUE_PULSAR_TOPIC", qc.PulsarTopic)

	default:
		return fmt.Errorf("REVMIG_QUEUE_TYPE: unsupported queue type %q (supported: kafka, pulsar)", qc.Type)
	}
}

func validateTopic(env, topic string) error {
	if topic == "" {
		return fmt.Errorf("%s: a topic is required", env)
	}
	if strings.ContainsAny(topic, " \t\n") {
		return fmt.Errorf("%s: topic %q must not contain whitespace", env, topic)
	}
	return nil
}
