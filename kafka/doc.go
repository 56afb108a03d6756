// Package kafka provides the Kafka producer component built on
// segmentio/kafka-go.
//
// A single actor goroutine owns the writer. Send, SendWithKey and
// SendMessage hand a message to the actor and block until the broker
// acknowledged the write or the per-message flush timeout expired, so
// callers get synchronous delivery results without sharing the writer.
//
//	kafka:
//	  producer:
//	    brokers: ["localhost:9092"]
//	    client_id: "orders"
//	    acks: "all"
//	    compression: "snappy"
//	    tls:
//	      ca_file: /etc/ssl/kafka-ca.pem
//
// Shutdown stops the actor through a shutdown.Token and closes the writer.
package kafka
