package config

type WorkerKeyStruct struct {
	NotificationQueue      string
	NotificationRetrySet   string
	NotificationDeadLetter string
}

var WorkerKey = &WorkerKeyStruct{
	NotificationQueue:      "notification_queue",
	NotificationRetrySet:   "notification_retry",
	NotificationDeadLetter: "notification_dead_letter",
}
