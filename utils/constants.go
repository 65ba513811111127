package utils

// LockCachePrefix is the prefix for capacity-lock keys in Redis.
const LockCachePrefix = "lock:"

// OTPCachePrefix is the prefix for guest OTP session keys in Redis.
const OTPCachePrefix = "otp:"

// AvailabilityCachePrefix is the prefix for cached per-date availability counts.
const AvailabilityCachePrefix = "avail:"
