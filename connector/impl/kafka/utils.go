package kafka

import (
	"math"

	"github.com/twmb/franz-go/pkg/kgo"
)

func kgoOptsFromWriterConf(conf WriterConfig) []kgo.Opt {
	opts := []kgo.Opt{
		kgo.SeedBrokers(conf.Brokers...),
		kgo.DefaultProduceTopic(conf.Topic),
		kgo.MaxBufferedRecords(math.MaxInt), // franz-go can stall under load with a small record buffer
	}

	if conf.AllowAutoTopicCreation {
		opts = append(opts, kgo.AllowAutoTopicCreation())
	}

	if conf.Linger != 0 {
		opts = append(opts, kgo.ProducerLinger(conf.Linger))
	}

	if conf.ClientID != "" {
		opts = append(opts, kgo.ClientID(conf.ClientID))
	}

	return opts
}
