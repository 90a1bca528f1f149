// Package messaging is a broker-agnostic publish/consume layer over NATS,
// Kafka, NSQ, Google Pub/Sub and an in-process memory broker.
//
// Every driver hands handlers the same Message implementation; with
// WithAutoAck the driver acks on a nil handler error and nacks otherwise.
package messaging
